package filestorage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("файл не найден")

type Provider interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// Ключи хранилища

func TemplateKey(requestID, fileName string) string {
	return path.Join("templates", fmt.Sprintf("%s_%s", requestID, cleanName(fileName)))
}

func DocumentKey(requestID, docID, ext string) string {
	return path.Join("documents", requestID, docID+ext)
}

func SignedKey(requestID, docID string) string {
	return path.Join("signed", requestID, docID+"_signed.pdf")
}

func QRCodeKey(requestID, docID string) string {
	return path.Join("qrcodes", requestID, docID+"_qrcode.png")
}

func SignatureKey(signatureID, fileName string) string {
	return path.Join("signatures", fmt.Sprintf("%s%s", signatureID, path.Ext(cleanName(fileName))))
}

func ProtocolKey(requestID string) string {
	return path.Join("protocols", requestID+"_protocol.pdf")
}

func cleanName(fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return "file"
	}
	return name
}

// CleanKey нормализует ключ и запрещает выход за пределы корня хранилища
func CleanKey(key string) (string, error) {
	key = strings.ReplaceAll(key, "\\", "/")
	cleaned := path.Clean("/" + key)
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", errors.Errorf("некорректный ключ файла: %q", key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", errors.Errorf("некорректный ключ файла: %q", key)
		}
	}
	return cleaned, nil
}
