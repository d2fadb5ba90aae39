package filestorage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

type localImpl struct {
	root string
}

// NewLocal хранилище в каталоге root
func NewLocal(root string) (Provider, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "ошибка создания каталога хранилища")
	}
	return &localImpl{root: root}, nil
}

func (i localImpl) fullPath(key string) (string, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(i.root, filepath.FromSlash(cleaned)), nil
}

func (i localImpl) Put(ctx context.Context, key string, data []byte, contentType string) error {
	fullPath, err := i.fullPath(key)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return errors.Wrap(err, "ошибка создания каталога")
	}
	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return errors.Wrap(err, "ошибка создания временного файла")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "ошибка записи файла")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "ошибка записи файла")
	}
	if err = os.Rename(tmpName, fullPath); err != nil {
		return errors.Wrap(err, "ошибка сохранения файла")
	}
	return nil
}

func (i localImpl) Get(ctx context.Context, key string) ([]byte, error) {
	fullPath, err := i.fullPath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "ошибка чтения файла")
	}
	return data, nil
}

func (i localImpl) Exists(ctx context.Context, key string) (bool, error) {
	fullPath, err := i.fullPath(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (i localImpl) Delete(ctx context.Context, key string) error {
	fullPath, err := i.fullPath(key)
	if err != nil {
		return err
	}
	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "ошибка удаления файла")
	}
	return nil
}
