package gallery

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategoryOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		contentType string
		want        Category
	}{
		{"image/png", CategoryImage},
		{"image/svg+xml", CategoryImage},
		{"video/mp4", CategoryVideo},
		{"audio/mpeg", CategoryAudio},
		{"application/octet-stream", CategoryOther},
		{"text/plain", CategoryOther},
		{"", CategoryOther},
		{"image", CategoryOther},
		{"IMAGE/PNG", CategoryOther},
		{"xvideo/mp4", CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, CategoryOf(tt.contentType))
		})
	}
}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"all", "image", "video", "audio", " Video "} {
		f, ok := ParseFilter(in)
		require.True(t, ok, in)
		require.Contains(t, Filters, f)
	}

	f, ok := ParseFilter("")
	require.True(t, ok)
	require.Equal(t, FilterAll, f)

	_, ok = ParseFilter("other")
	require.False(t, ok)
	_, ok = ParseFilter("documents")
	require.False(t, ok)
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	c, ok := ParseCategory("Audio")
	require.True(t, ok)
	require.Equal(t, CategoryAudio, c)

	_, ok = ParseCategory("other")
	require.False(t, ok)
	_, ok = ParseCategory("")
	require.False(t, ok)
}

func TestMediaObject_Title(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1700-cat", MediaObject{Name: "1700-cat.png"}.Title())
	require.Equal(t, "1700-archive.tar", MediaObject{Name: "1700-archive.tar.gz"}.Title())
	require.Equal(t, "1700-README", MediaObject{Name: "1700-README"}.Title())
}

func sampleObjects() []MediaObject {
	return []MediaObject{
		{Name: "1-cat.png", ContentType: "image/png"},
		{Name: "2-clip.mp4", ContentType: "video/mp4"},
		{Name: "3-song.mp3", ContentType: "audio/mpeg"},
		{Name: "4-notes.txt", ContentType: "text/plain"},
		{Name: "5-dog.jpg", ContentType: "image/jpeg"},
	}
}

func TestVisible(t *testing.T) {
	t.Parallel()

	objects := sampleObjects()

	t.Run("all is identity", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, objects, Visible(objects, FilterAll))
	})

	t.Run("named filters exclude other", func(t *testing.T) {
		t.Parallel()
		images := Visible(objects, FilterImage)
		require.Len(t, images, 2)
		require.Equal(t, "1-cat.png", images[0].Name)
		require.Equal(t, "5-dog.jpg", images[1].Name)

		require.Len(t, Visible(objects, FilterVideo), 1)
		require.Len(t, Visible(objects, FilterAudio), 1)
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		for _, f := range Filters {
			once := Visible(objects, f)
			require.Equal(t, once, Visible(once, f), f)
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		for _, f := range Filters {
			require.Empty(t, Visible(nil, f))
		}
	})
}

func TestSingleImageScenario(t *testing.T) {
	t.Parallel()

	objects := []MediaObject{{Name: "1700-cat.png", ContentType: "image/png"}}

	require.Equal(t, "1700-cat", objects[0].Title())
	require.Empty(t, Visible(objects, FilterVideo))
	require.Equal(t, objects, Visible(objects, FilterImage))
}
