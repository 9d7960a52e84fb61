package gallery

import (
	"bytes"
	"io"
	"time"

	"github.com/google/uuid"
)

// Phase is what the controller is doing right now.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseListing   Phase = "listing"
	PhaseUploading Phase = "uploading"
	PhaseDeleting  Phase = "deleting"
)

// File is a selected file. Open may be called more than once.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// BytesFile wraps an in-memory file.
func BytesFile(name, contentType string, data []byte) *File {
	return &File{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// PendingUpload is the single file waiting to be uploaded.
type PendingUpload struct {
	ID         uuid.UUID
	Category   Category
	File       *File
	SelectedAt time.Time
}

// State is a point-in-time copy of the gallery.
type State struct {
	Objects     []MediaObject
	Filter      Filter
	DarkTheme   bool
	Pending     *PendingUpload
	Phase       Phase
	RefreshedAt time.Time
	// LastError is the error of the most recently finished operation, nil if
	// it succeeded.
	LastError error
}

// Loading is true while any refresh, upload or delete is in flight.
func (s State) Loading() bool { return s.Phase != PhaseIdle }

// Visible applies the active filter to Objects.
func (s State) Visible() []MediaObject { return Visible(s.Objects, s.Filter) }
