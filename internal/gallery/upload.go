package gallery

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temp files.
const multipartMemory = 32 << 20

// errTooLarge marks a request body over the configured upload limit.
var errTooLarge = errors.New("gallery: file exceeds upload limit")

// parseUploadForm limits and parses a multipart body.
func parseUploadForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return errTooLarge
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// formFile reads the named file field into memory. It returns nil, nil when
// the field is absent or empty.
func formFile(r *http.Request, field string) (*File, error) {
	f, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	defer f.Close()

	if header.Size == 0 || header.Filename == "" {
		return nil, nil
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidInput, field, err)
	}
	return BytesFile(header.Filename, fileContentType(header, data), data), nil
}

// fileContentType prefers the type the client declared and sniffs the
// content when it declared nothing useful.
func fileContentType(header *multipart.FileHeader, data []byte) string {
	ct := strings.TrimSpace(header.Header.Get("Content-Type"))
	if ct == "" || ct == "application/octet-stream" {
		return http.DetectContentType(data)
	}
	return ct
}

// selectFromForm reads "category" and "file" and replaces the pending upload.
func (c *Controller) selectFromForm(r *http.Request) error {
	f, err := formFile(r, "file")
	if err != nil {
		return err
	}
	return c.selectFormFile(r, f)
}

// selectFormFile pairs an already read file with the form's "category".
func (c *Controller) selectFormFile(r *http.Request, f *File) error {
	category := strings.TrimSpace(r.FormValue("category"))
	if f == nil || category == "" {
		return ErrMissingInput
	}
	_, err := c.SelectFile(Category(category), f)
	return err
}
