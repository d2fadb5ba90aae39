package models

// TemplateVariable метка шаблона вида {name}
type TemplateVariable struct {
	Name        string `json:"name"`
	Required    bool   `json:"required"`
	ShowOnExcel bool   `json:"showOnExcel"`
}

// Служебные метки, значения которых подставляются при подписании
const (
	TagSignature = "Signature"
	TagQrCode    = "qrCode"
	TagCourt     = "Court"
)

// ImageTagPrefix префикс меток-изображений в шаблоне, {%Signature}
const ImageTagPrefix = "%"

// IsImageTag метка заменяется изображением
func IsImageTag(name string) bool {
	name = TrimImagePrefix(name)
	return name == TagSignature || name == TagQrCode
}

func TrimImagePrefix(name string) string {
	if len(name) > 0 && name[:1] == ImageTagPrefix {
		return name[1:]
	}
	return name
}

// IsServiceTag значение метки заполняется системой при подписании
func IsServiceTag(name string) bool {
	return IsImageTag(name) || TrimImagePrefix(name) == TagCourt
}

type File struct {
	FileName    string
	ContentType string
	Body        []byte
}
