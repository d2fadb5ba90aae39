package templaterenderer

import (
	"esign-backend/models"

	"github.com/pkg/errors"
)

// ImageSource содержимое изображения для метки Signature / qrCode
type ImageSource interface {
	Image(tag string) ([]byte, error)
}

// ImageMap изображения по имени метки
type ImageMap map[string][]byte

func (m ImageMap) Image(tag string) ([]byte, error) {
	data, ok := m[models.TrimImagePrefix(tag)]
	if !ok || len(data) == 0 {
		return nil, models.AssetNotFound(tag)
	}
	return data, nil
}

type Provider interface {
	// Render подставляет значения и изображения в docx шаблон
	Render(template []byte, data map[string]string, images ImageSource) ([]byte, error)
	// Preview вместо отсутствующих значений подставляет имя метки
	Preview(template []byte, data map[string]string) ([]byte, error)
	ExtractVariables(template []byte) ([]models.TemplateVariable, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

func NewInstance() Provider {
	return impl{}
}

type impl struct{}

func (i impl) Render(template []byte, data map[string]string, images ImageSource) ([]byte, error) {
	return render(template, renderOptions{data: data, images: images})
}

func (i impl) Preview(template []byte, data map[string]string) ([]byte, error) {
	return render(template, renderOptions{data: data, preview: true})
}

func (i impl) ExtractVariables(template []byte) ([]models.TemplateVariable, error) {
	pkg, err := openPackage(template)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	result := make([]models.TemplateVariable, 0)
	for _, name := range pkg.contentParts() {
		for _, tag := range findTags(pkg.files[name]) {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			service := models.IsServiceTag(tag)
			result = append(result, models.TemplateVariable{
				Name:        tag,
				Required:    !service,
				ShowOnExcel: !service,
			})
		}
	}
	return result, nil
}

type renderOptions struct {
	data    map[string]string
	images  ImageSource
	preview bool
}

func render(template []byte, opts renderOptions) ([]byte, error) {
	pkg, err := openPackage(template)
	if err != nil {
		return nil, err
	}
	for _, name := range pkg.contentParts() {
		part := &partRenderer{pkg: pkg, name: name, opts: opts}
		content, err := part.render(pkg.files[name])
		if err != nil {
			return nil, errors.Wrapf(err, "ошибка заполнения %s", name)
		}
		pkg.files[name] = content
	}
	return pkg.bytes()
}
