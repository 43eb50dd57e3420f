package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrNotOwner           = errors.New("actor is not the author")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// notFound translates gorm's missing-record error; other errors are wrapped
// with op.
func notFound(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
