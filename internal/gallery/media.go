// Package gallery owns the media gallery's state and the operations that
// change it: listing the container, uploading a selected file, deleting an
// object, filtering the visible set and flipping the theme.
package gallery

import (
	"strings"
	"time"

	"github.com/radif/gallery/internal/storage"
)

// Category is the media class derived from a content type.
type Category string

// Categories. Other is never uploadable and never matched by a named filter.
const (
	CategoryImage Category = "image"
	CategoryVideo Category = "video"
	CategoryAudio Category = "audio"
	CategoryOther Category = "other"
)

// UploadCategories lists the upload slots in display order.
var UploadCategories = []Category{CategoryImage, CategoryVideo, CategoryAudio}

// CategoryOf classifies a content type by its prefix.
func CategoryOf(contentType string) Category {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return CategoryImage
	case strings.HasPrefix(contentType, "video/"):
		return CategoryVideo
	case strings.HasPrefix(contentType, "audio/"):
		return CategoryAudio
	default:
		return CategoryOther
	}
}

// ParseCategory accepts one of the uploadable categories.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategoryImage, CategoryVideo, CategoryAudio:
		return c, true
	}
	return "", false
}

// Filter selects which objects are visible.
type Filter string

const (
	FilterAll   Filter = "all"
	FilterImage Filter = "image"
	FilterVideo Filter = "video"
	FilterAudio Filter = "audio"
)

// Filters lists the filter options in display order.
var Filters = []Filter{FilterAll, FilterImage, FilterVideo, FilterAudio}

// ParseFilter accepts all, image, video or audio. An empty string means all.
func ParseFilter(s string) (Filter, bool) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "":
		return FilterAll, true
	case FilterAll, FilterImage, FilterVideo, FilterAudio:
		return f, true
	}
	return "", false
}

// Match reports whether an object of category c is visible under f.
func (f Filter) Match(c Category) bool {
	return f == FilterAll || Category(f) == c
}

// MediaObject is one stored object as the gallery shows it.
type MediaObject struct {
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	ContentType  string    `json:"contentType"`
	Size         int64     `json:"size,omitempty"`
	LastModified time.Time `json:"lastModified,omitzero"`
}

// Category derives the object's media class from its content type.
func (o MediaObject) Category() Category {
	return CategoryOf(o.ContentType)
}

// Title is the object name without its last extension: "1700-cat.png" -> "1700-cat".
func (o MediaObject) Title() string {
	if i := strings.LastIndex(o.Name, "."); i != -1 {
		return o.Name[:i]
	}
	return o.Name
}

// Visible returns the objects matching f, in listing order. FilterAll returns
// objects itself.
func Visible(objects []MediaObject, f Filter) []MediaObject {
	if f == FilterAll || f == "" {
		return objects
	}
	out := make([]MediaObject, 0, len(objects))
	for _, o := range objects {
		if f.Match(o.Category()) {
			out = append(out, o)
		}
	}
	return out
}

func fromStorage(o storage.Object, url string) MediaObject {
	ct := o.ContentType
	if ct == "" {
		ct = storage.DefaultContentType
	}
	return MediaObject{
		Name:         o.Key,
		URL:          url,
		ContentType:  ct,
		Size:         o.Size,
		LastModified: o.LastModified,
	}
}
