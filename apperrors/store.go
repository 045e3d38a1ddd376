package apperrors

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// FromStore translates a GORM error into a typed error for entity/id.
// Serialization failures (SQLSTATE 40001) become Concurrency, the only
// retry-safe kind.
func FromStore(entity string, id uint, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(entity, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict(entity, id, "already exists")
	case strings.Contains(err.Error(), "SQLSTATE 40001"):
		return Concurrency(entity, err)
	}
	return fmt.Errorf("%s store error: %w", entity, err)
}
