package persistence

import (
	"errors"

	"github.com/batchtrack/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM errors to domain errors. entity names the
// record in the message, e.g. "Batch".
func translateError(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NewNotFoundError(entity + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewConflictError(entity + " already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewConflictError(entity + " references or is referenced by a record that changed concurrently")
	default:
		return err
	}
}
