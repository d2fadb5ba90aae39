package models

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type ErrorKind string

const (
	ErrPreconditionFailed ErrorKind = "PRECONDITION_FAILED"
	ErrAssetNotFound      ErrorKind = "ASSET_NOT_FOUND"
	ErrConversionFailed   ErrorKind = "CONVERSION_FAILED"
	ErrPersistenceFailed  ErrorKind = "PERSISTENCE_FAILED"
	ErrQueueUnavailable   ErrorKind = "QUEUE_UNAVAILABLE"
	ErrNotFound           ErrorKind = "NOT_FOUND"
	ErrValidation         ErrorKind = "VALIDATION"
	ErrInternal           ErrorKind = "INTERNAL"
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(kind ErrorKind, err error, format string, args ...interface{}) error {
	return &AppError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

func PreconditionFailed(format string, args ...interface{}) error {
	return NewAppError(ErrPreconditionFailed, nil, format, args...)
}

// UnexpectedSignStatus переход недопустим из текущего статуса
func UnexpectedSignStatus(action SignAction, current SignStatus) error {
	expected := make([]string, 0)
	for _, s := range action.Sources() {
		expected = append(expected, string(s))
	}
	return PreconditionFailed("недопустимый статус заявки %q для операции %q, ожидается: %s",
		current, action, strings.Join(expected, ", "))
}

// AssetNotFound tag - имя метки или ресурса, searched - проверенные пути
func AssetNotFound(tag string, searched ...string) error {
	if len(searched) == 0 {
		return NewAppError(ErrAssetNotFound, nil, "ресурс %q не найден", tag)
	}
	return NewAppError(ErrAssetNotFound, nil, "ресурс %q не найден, проверены пути: %s", tag, strings.Join(searched, ", "))
}

func ConversionFailed(err error, diagnostic string) error {
	return NewAppError(ErrConversionFailed, err, "ошибка конвертации документа: %s", strings.TrimSpace(diagnostic))
}

func PersistenceFailed(err error, format string, args ...interface{}) error {
	return NewAppError(ErrPersistenceFailed, err, format, args...)
}

func QueueUnavailable(err error) error {
	return NewAppError(ErrQueueUnavailable, err, "очередь подписания недоступна")
}

func NotFound(format string, args ...interface{}) error {
	return NewAppError(ErrNotFound, nil, format, args...)
}

func Validation(format string, args ...interface{}) error {
	return NewAppError(ErrValidation, nil, format, args...)
}

func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrInternal
}

func IsKind(err error, kind ErrorKind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}
