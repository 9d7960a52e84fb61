package gallery

import (
	"context"
	"errors"
	"fmt"

	"github.com/radif/gallery/internal/storage"
)

var (
	// ErrMissingInput is returned when an upload is attempted without both a
	// file and a category, or a delete without a name. The store is not called.
	ErrMissingInput = errors.New("gallery: select a file type and file to upload")
	// ErrInvalidInput covers unknown filters and categories.
	ErrInvalidInput = errors.New("gallery: invalid input")
	// ErrBusy is returned in reject mode while another upload or delete runs.
	ErrBusy = errors.New("gallery: another upload or delete is in progress")
	// ErrNotFound is returned when the named object does not exist.
	ErrNotFound = errors.New("gallery: object not found")
	// ErrCanceled is returned when the caller's context ended first.
	ErrCanceled = errors.New("gallery: operation canceled")
	// ErrStorage wraps every other collaborator failure.
	ErrStorage = errors.New("gallery: storage operation failed")
)

// classify wraps a collaborator error with the gallery sentinel that
// describes it, keeping the underlying chain for errors.Is.
func classify(ctx context.Context, err error) error {
	switch {
	case ctx.Err() != nil:
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
}
