// Package repository persists submission records. Every backend keeps
// records in the order they were appended.
package repository

import (
	"context"
	"errors"

	"github.com/tim-martinez/node-form/internal/models"
)

// ErrCorruptStore is returned when persisted state exists but cannot be decoded.
var ErrCorruptStore = errors.New("submission store is corrupt")

type SubmissionStore interface {
	// Append adds one record after all existing records.
	Append(ctx context.Context, sub models.Submission) error
	// List returns every record in storage order. An empty store yields an
	// empty, non-nil slice.
	List(ctx context.Context) ([]models.Submission, error)
	Count(ctx context.Context) (int, error)
	Close() error
}
