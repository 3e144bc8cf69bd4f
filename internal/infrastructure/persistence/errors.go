package persistence

import (
	"errors"
	"strings"

	"github.com/catalogue/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// isDuplicateKey reports whether err is a unique constraint violation.
// TranslateError covers the configured dialects; the message checks catch
// drivers opened without it.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "duplicate key value")
}

// translate maps storage errors onto domain errors. conflict is used for
// unique violations and notFound for missing rows; either may be nil to
// leave that case untouched.
func translate(err error, notFound, conflict *shared.DomainError) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case conflict != nil && isDuplicateKey(err):
		return shared.WrapDomainError(conflict.Code, conflict.Message, err)
	default:
		return err
	}
}
