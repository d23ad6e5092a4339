package mongodb

import (
	"fmt"

	"gst_billing/internal/dao/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound  = repository.ErrNotFound
	ErrDuplicate = repository.ErrDuplicate
)

// mapWriteError tags unique index violations with ErrDuplicate and keeps the driver error in the chain.
func mapWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	}
	return err
}
