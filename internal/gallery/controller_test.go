package gallery

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/radif/gallery/internal/storage"
)

// mockStore is a testify mock of storage.Storage. PublicURL is not mocked.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) List(ctx context.Context) ([]storage.Object, error) {
	args := m.Called(ctx)
	objects, _ := args.Get(0).([]storage.Object)
	return objects, args.Error(1)
}

func (m *mockStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, r, size, contentType)
	return args.Error(0)
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *mockStore) PublicURL(key string) string {
	return "https://media.test/" + key
}

// gatedStore wraps MemoryStorage and can hold mutations or the first listing
// until the test releases them.
type gatedStore struct {
	*storage.MemoryStorage

	mutationStarted chan string
	releaseMutation chan struct{}

	listOnce    sync.Once
	listStarted chan struct{}
	releaseList chan struct{}
	staleList   []storage.Object
	// listErr fails every listing after the gated one.
	listErr error
}

func (g *gatedStore) Upload(ctx context.Context, key string, r io.Reader, size int64, ct string) error {
	if g.releaseMutation != nil {
		g.mutationStarted <- key
		<-g.releaseMutation
	}
	return g.MemoryStorage.Upload(ctx, key, r, size, ct)
}

func (g *gatedStore) Delete(ctx context.Context, key string) error {
	if g.releaseMutation != nil {
		g.mutationStarted <- key
		<-g.releaseMutation
	}
	return g.MemoryStorage.Delete(ctx, key)
}

func (g *gatedStore) List(ctx context.Context) ([]storage.Object, error) {
	if g.releaseList != nil {
		first := false
		g.listOnce.Do(func() { first = true })
		if first {
			close(g.listStarted)
			<-g.releaseList
			return g.staleList, nil
		}
		if g.listErr != nil {
			return nil, g.listErr
		}
	}
	return g.MemoryStorage.List(ctx)
}

var fixedNow = time.UnixMilli(1700000000000)

func fixedClock() time.Time { return fixedNow }

func seed(t *testing.T, s *storage.MemoryStorage, objects map[string]string) {
	t.Helper()
	for key, ct := range objects {
		require.NoError(t, s.Upload(context.Background(), key, strings.NewReader(""), 0, ct))
	}
}

func names(objects []MediaObject) []string {
	out := make([]string, 0, len(objects))
	for _, o := range objects {
		out = append(out, o.Name)
	}
	return out
}

func TestNewController_InitialState(t *testing.T) {
	t.Parallel()

	c := NewController(storage.NewMemoryStorage("http://media.test"))
	s := c.Snapshot()

	require.Empty(t, s.Objects)
	require.Equal(t, FilterAll, s.Filter)
	require.False(t, s.DarkTheme)
	require.Nil(t, s.Pending)
	require.Equal(t, PhaseIdle, s.Phase)
	require.False(t, s.Loading())
}

func TestController_RefreshEmptyContainer(t *testing.T) {
	t.Parallel()

	c := NewController(storage.NewMemoryStorage("http://media.test"))
	res := c.Refresh(context.Background())

	require.True(t, res.OK())
	require.Equal(t, OpRefresh, res.Op)
	require.NotEqual(t, uuid.Nil, res.ID)
	for _, f := range Filters {
		require.NoError(t, c.SetFilter(f))
		require.Empty(t, c.View())
	}
}

func TestController_RefreshMapsObjects(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	store.On("List", mock.Anything).Return([]storage.Object{
		{Key: "1700-cat.png", ContentType: "image/png", Size: 10},
		{Key: "1701-blob", ContentType: ""},
	}, nil).Once()

	c := NewController(store)
	res := c.Refresh(context.Background())
	require.True(t, res.OK())

	objects := c.Snapshot().Objects
	require.Len(t, objects, 2)
	require.Equal(t, MediaObject{Name: "1700-cat.png", URL: "https://media.test/1700-cat.png", ContentType: "image/png", Size: 10}, objects[0])
	require.Equal(t, storage.DefaultContentType, objects[1].ContentType)
	require.Equal(t, CategoryOther, objects[1].Category())
	store.AssertExpectations(t)
}

func TestController_RefreshFailureKeepsPreviousObjects(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	store.On("List", mock.Anything).Return([]storage.Object{{Key: "1-a.png", ContentType: "image/png"}}, nil).Once()
	store.On("List", mock.Anything).Return(nil, storage.ErrAccessDenied).Once()

	c := NewController(store)
	require.True(t, c.Refresh(context.Background()).OK())

	res := c.Refresh(context.Background())
	require.ErrorIs(t, res.Err, ErrStorage)
	require.ErrorIs(t, res.Err, storage.ErrAccessDenied)
	require.Equal(t, ReasonStorage, res.Reason())
	require.Equal(t, []string{"1-a.png"}, names(c.Snapshot().Objects))
	require.Equal(t, PhaseIdle, c.Phase())
	require.ErrorIs(t, c.Snapshot().LastError, ErrStorage)
}

func TestController_UploadWithoutFileDoesNotCallStore(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	c := NewController(store)

	_, err := c.SelectFile(CategoryImage, nil)
	require.ErrorIs(t, err, ErrMissingInput)

	res := c.Upload(context.Background())
	require.ErrorIs(t, res.Err, ErrMissingInput)
	require.Equal(t, ReasonMissingInput, res.Reason())
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "List", mock.Anything)
}

func TestController_SelectFileRejectsUnknownCategory(t *testing.T) {
	t.Parallel()

	c := NewController(&mockStore{})
	_, err := c.SelectFile(CategoryOther, BytesFile("a.txt", "text/plain", []byte("x")))
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Nil(t, c.Snapshot().Pending)

	_, err = c.SelectFile("", BytesFile("a.png", "image/png", []byte("x")))
	require.ErrorIs(t, err, ErrMissingInput)
	require.Nil(t, c.Snapshot().Pending)
}

func TestController_SelectFileNormalizesCategory(t *testing.T) {
	t.Parallel()

	c := NewController(&mockStore{})
	p, err := c.SelectFile(" Image ", BytesFile("a.png", "image/png", []byte("x")))
	require.NoError(t, err)
	require.Equal(t, CategoryImage, p.Category)
	require.Equal(t, CategoryImage, c.Snapshot().Pending.Category)
}

func TestController_SelectFileReplacesPending(t *testing.T) {
	t.Parallel()

	c := NewController(&mockStore{})
	first, err := c.SelectFile(CategoryImage, BytesFile("a.png", "image/png", []byte("a")))
	require.NoError(t, err)
	second, err := c.SelectFile(CategoryAudio, BytesFile("b.mp3", "audio/mpeg", []byte("b")))
	require.NoError(t, err)

	pending := c.Snapshot().Pending
	require.NotNil(t, pending)
	require.Equal(t, second.ID, pending.ID)
	require.NotEqual(t, first.ID, pending.ID)
	require.Equal(t, CategoryAudio, pending.Category)
	require.Equal(t, "b.mp3", pending.File.Name)

	c.ClearSelection()
	require.Nil(t, c.Snapshot().Pending)
}

func TestController_UploadRoundTrip(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStorage("http://media.test")
	c := NewController(store, WithClock(fixedClock))

	_, err := c.SelectFile(CategoryImage, BytesFile("cat.png", "image/png", []byte("png-bytes")))
	require.NoError(t, err)

	res := c.Upload(context.Background())
	require.True(t, res.OK(), res.Err)
	require.False(t, res.Partial)
	require.Equal(t, "1700000000000-cat.png", res.Key)

	s := c.Snapshot()
	require.Nil(t, s.Pending)
	require.Len(t, s.Objects, 1)
	obj := s.Objects[0]
	require.Equal(t, "1700000000000-cat", obj.Title())
	require.Equal(t, "image/png", obj.ContentType)
	require.Equal(t, "http://media.test/1700000000000-cat.png", obj.URL)

	require.NoError(t, c.SetFilter(FilterVideo))
	require.Empty(t, c.View())
	require.NoError(t, c.SetFilter(FilterImage))
	require.Equal(t, []string{"1700000000000-cat.png"}, names(c.View()))
}

func TestController_UploadStripsDirectories(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	store.On("Upload", mock.Anything, "1700000000000-clip.mp4", mock.Anything, int64(4), "video/mp4").Return(nil).Once()
	store.On("List", mock.Anything).Return([]storage.Object{}, nil).Once()

	c := NewController(store, WithClock(fixedClock))
	_, err := c.SelectFile(CategoryVideo, BytesFile(`C:\Users\me\clip.mp4`, "video/mp4", []byte("mp4!")))
	require.NoError(t, err)

	require.True(t, c.Upload(context.Background()).OK())
	store.AssertExpectations(t)
}

func TestController_UploadFailureKeepsPending(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(storage.ErrUploadFailed).Once()

	c := NewController(store, WithClock(fixedClock))
	selected, err := c.SelectFile(CategoryAudio, BytesFile("song.mp3", "audio/mpeg", []byte("id3")))
	require.NoError(t, err)

	res := c.Upload(context.Background())
	require.ErrorIs(t, res.Err, ErrStorage)
	require.ErrorIs(t, res.Err, storage.ErrUploadFailed)
	require.False(t, res.Partial)

	pending := c.Snapshot().Pending
	require.NotNil(t, pending)
	require.Equal(t, selected.ID, pending.ID)
	store.AssertNotCalled(t, "List", mock.Anything)
}

func TestController_UploadThenRefreshFailureIsPartial(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	store.On("List", mock.Anything).Return(nil, errors.New("network down")).Once()

	c := NewController(store, WithClock(fixedClock))
	_, err := c.SelectFile(CategoryImage, BytesFile("cat.png", "image/png", []byte("x")))
	require.NoError(t, err)

	res := c.Upload(context.Background())
	require.True(t, res.Partial)
	require.Equal(t, ReasonStorage, res.Reason())
	require.Nil(t, c.Snapshot().Pending)
	store.AssertExpectations(t)
}

func TestController_DeleteRemovesObject(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStorage("http://media.test")
	seed(t, store, map[string]string{"1-a.png": "image/png", "2-b.mp3": "audio/mpeg"})

	c := NewController(store)
	require.True(t, c.Refresh(context.Background()).OK())

	res := c.Delete(context.Background(), "1-a.png")
	require.True(t, res.OK(), res.Err)
	require.Equal(t, "1-a.png", res.Key)
	require.Equal(t, []string{"2-b.mp3"}, names(c.Snapshot().Objects))
}

func TestController_DeleteMissingStillRefreshes(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStorage("http://media.test")
	seed(t, store, map[string]string{"1-a.png": "image/png"})

	c := NewController(store)
	require.True(t, c.Refresh(context.Background()).OK())

	// Removed behind the controller's back.
	require.NoError(t, store.Delete(context.Background(), "1-a.png"))

	res := c.Delete(context.Background(), "1-a.png")
	require.ErrorIs(t, res.Err, ErrNotFound)
	require.Equal(t, ReasonNotFound, res.Reason())
	require.Empty(t, c.Snapshot().Objects)
}

func TestController_DeleteEmptyName(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	res := NewController(store).Delete(context.Background(), "  ")
	require.ErrorIs(t, res.Err, ErrMissingInput)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestController_DeleteFailureSkipsRefresh(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	store.On("Delete", mock.Anything, "1-a.png").Return(storage.ErrDeleteFailed).Once()

	res := NewController(store).Delete(context.Background(), "1-a.png")
	require.ErrorIs(t, res.Err, storage.ErrDeleteFailed)
	require.Equal(t, ReasonStorage, res.Reason())
	store.AssertNotCalled(t, "List", mock.Anything)
}

func TestController_ConcurrentDeletesBothApplied(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStorage("http://media.test")
	seed(t, store, map[string]string{"1-a.png": "image/png", "2-b.mp4": "video/mp4", "3-c.mp3": "audio/mpeg"})

	c := NewController(store)
	require.True(t, c.Refresh(context.Background()).OK())

	var wg sync.WaitGroup
	results := make([]Result, 2)
	for i, name := range []string{"1-a.png", "2-b.mp4"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.Delete(context.Background(), name)
		}()
	}
	wg.Wait()

	for _, r := range results {
		require.True(t, r.OK(), r.Err)
	}
	require.Equal(t, []string{"3-c.mp3"}, names(c.Snapshot().Objects))
}

func TestController_RejectOverlap(t *testing.T) {
	t.Parallel()

	store := &gatedStore{
		MemoryStorage:   storage.NewMemoryStorage("http://media.test"),
		mutationStarted: make(chan string),
		releaseMutation: make(chan struct{}),
	}
	seed(t, store.MemoryStorage, map[string]string{"1-a.png": "image/png"})

	c := NewController(store, WithRejectOverlap(), WithClock(fixedClock))
	_, err := c.SelectFile(CategoryImage, BytesFile("cat.png", "image/png", []byte("x")))
	require.NoError(t, err)

	done := make(chan Result)
	go func() { done <- c.Upload(context.Background()) }()

	require.Equal(t, "1700000000000-cat.png", <-store.mutationStarted)
	require.Equal(t, PhaseUploading, c.Phase())
	require.True(t, c.Snapshot().Loading())

	busy := c.Delete(context.Background(), "1-a.png")
	require.ErrorIs(t, busy.Err, ErrBusy)
	require.Equal(t, ReasonBusy, busy.Reason())

	close(store.releaseMutation)
	require.True(t, (<-done).OK())
	require.Equal(t, PhaseIdle, c.Phase())
	require.ElementsMatch(t, []string{"1-a.png", "1700000000000-cat.png"}, names(c.Snapshot().Objects))
}

func TestController_QueuedMutationHonorsContext(t *testing.T) {
	t.Parallel()

	store := &gatedStore{
		MemoryStorage:   storage.NewMemoryStorage("http://media.test"),
		mutationStarted: make(chan string),
		releaseMutation: make(chan struct{}),
	}
	seed(t, store.MemoryStorage, map[string]string{"1-a.png": "image/png", "2-b.png": "image/png"})
	c := NewController(store)

	done := make(chan Result)
	go func() { done <- c.Delete(context.Background(), "1-a.png") }()
	require.Equal(t, "1-a.png", <-store.mutationStarted)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	queued := c.Delete(ctx, "2-b.png")
	require.ErrorIs(t, queued.Err, ErrCanceled)
	require.Equal(t, ReasonCanceled, queued.Reason())

	close(store.releaseMutation)
	require.True(t, (<-done).OK())
	require.Equal(t, []string{"2-b.png"}, names(c.Snapshot().Objects))
}

func TestController_QueuedUploadOfSameSelectionRunsOnce(t *testing.T) {
	t.Parallel()

	store := &gatedStore{
		MemoryStorage:   storage.NewMemoryStorage("http://media.test"),
		mutationStarted: make(chan string, 2),
		releaseMutation: make(chan struct{}),
	}
	c := NewController(store, WithClock(fixedClock))
	_, err := c.SelectFile(CategoryVideo, BytesFile("clip.mp4", "video/mp4", []byte("v")))
	require.NoError(t, err)

	first := make(chan Result)
	go func() { first <- c.Upload(context.Background()) }()
	<-store.mutationStarted

	second := make(chan Result)
	go func() { second <- c.Upload(context.Background()) }()

	close(store.releaseMutation)
	require.True(t, (<-first).OK())
	require.ErrorIs(t, (<-second).Err, ErrMissingInput)
	require.Len(t, c.Snapshot().Objects, 1)
}

func TestController_StaleRefreshIsDiscarded(t *testing.T) {
	t.Parallel()

	store := &gatedStore{
		MemoryStorage: storage.NewMemoryStorage("http://media.test"),
		listStarted:   make(chan struct{}),
		releaseList:   make(chan struct{}),
		staleList:     []storage.Object{{Key: "0-old.png", ContentType: "image/png"}},
	}
	c := NewController(store, WithClock(fixedClock))

	slow := make(chan Result)
	go func() { slow <- c.Refresh(context.Background()) }()
	<-store.listStarted

	_, err := c.SelectFile(CategoryImage, BytesFile("new.png", "image/png", []byte("n")))
	require.NoError(t, err)
	require.True(t, c.Upload(context.Background()).OK())

	close(store.releaseList)
	res := <-slow
	require.True(t, res.OK())
	require.True(t, res.Superseded)
	require.Equal(t, []string{"1700000000000-new.png"}, names(c.Snapshot().Objects))
}

func TestController_FailedRefreshStillSupersedesOlderListing(t *testing.T) {
	t.Parallel()

	store := &gatedStore{
		MemoryStorage: storage.NewMemoryStorage("http://media.test"),
		listStarted:   make(chan struct{}),
		releaseList:   make(chan struct{}),
		staleList:     []storage.Object{{Key: "1-cat.png", ContentType: "image/png"}},
		listErr:       errors.New("transient"),
	}
	seed(t, store.MemoryStorage, map[string]string{"1-cat.png": "image/png"})
	c := NewController(store, WithClock(fixedClock))

	slow := make(chan Result)
	go func() { slow <- c.Refresh(context.Background()) }()
	<-store.listStarted

	del := c.Delete(context.Background(), "1-cat.png")
	require.True(t, del.Partial)
	require.ErrorIs(t, del.Err, ErrStorage)

	close(store.releaseList)
	res := <-slow
	require.NoError(t, res.Err)
	require.True(t, res.Superseded)
	require.NotContains(t, names(c.Snapshot().Objects), "1-cat.png")
}

func TestController_SetFilterAndTheme(t *testing.T) {
	t.Parallel()

	c := NewController(&mockStore{})

	require.ErrorIs(t, c.SetFilter("documents"), ErrInvalidInput)
	require.Equal(t, FilterAll, c.Snapshot().Filter)

	require.NoError(t, c.SetFilter(FilterAudio))
	require.Equal(t, FilterAudio, c.Snapshot().Filter)

	require.True(t, c.ToggleTheme())
	require.True(t, c.Snapshot().DarkTheme)
	require.False(t, c.ToggleTheme())
}

func TestController_Lookup(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStorage("http://media.test")
	seed(t, store, map[string]string{"1-a.png": "image/png"})
	c := NewController(store)
	require.True(t, c.Refresh(context.Background()).OK())

	obj, err := c.Lookup("1-a.png")
	require.NoError(t, err)
	require.Equal(t, "http://media.test/1-a.png", obj.URL)

	_, err = c.Lookup("missing")
	require.ErrorIs(t, err, ErrNotFound)
}
