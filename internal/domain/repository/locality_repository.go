// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"smartqueue/internal/domain/entity"
)

// LocalityRepository provides access to the immutable locality reference set.
type LocalityRepository interface {
	// ListLocalities returns every known locality. The set is small (hundreds
	// of rows) and loaded once at startup.
	ListLocalities(ctx context.Context) ([]entity.Locality, error)
}
