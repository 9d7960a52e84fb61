package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/radif/gallery/internal/logger"
	"github.com/radif/gallery/internal/storage"
)

// Controller holds the gallery state for one container. It is safe for
// concurrent use.
//
// Uploads and deletes are serialized; depending on the overlap policy a
// second mutation either waits for the first or fails with ErrBusy. Every
// refresh takes a ticket when it is issued and its listing is applied only if
// no newer ticket was applied first, so the most recently issued refresh wins
// regardless of which one the store answers last.
type Controller struct {
	store     storage.Storage
	log       *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time
	reject    bool
	mutations *semaphore.Weighted

	mu          sync.Mutex
	objects     []MediaObject
	filter      Filter
	dark        bool
	pending     *PendingUpload
	refreshedAt time.Time
	lastErr     error
	inflight    [opCount]int
	issued      uint64
	applied     uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for operation outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock replaces time.Now, which is used to prefix object keys.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithTracer sets the tracer for operation spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Controller) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithRejectOverlap makes an upload or delete fail with ErrBusy while another
// one is in flight, instead of waiting for it.
func WithRejectOverlap() Option {
	return func(c *Controller) {
		c.reject = true
	}
}

// NewController creates a controller with an empty object list, the "all"
// filter and the light theme. Call Refresh to load the container.
func NewController(store storage.Storage, opts ...Option) *Controller {
	c := &Controller{
		store:     store,
		log:       logger.NewNope(),
		tracer:    otel.Tracer("github.com/radif/gallery/internal/gallery"),
		now:       time.Now,
		mutations: semaphore.NewWeighted(1),
		objects:   []MediaObject{},
		filter:    FilterAll,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh replaces the object list with a fresh listing. On failure the
// previous list is kept.
func (c *Controller) Refresh(ctx context.Context) (res Result) {
	ctx, res, end := c.begin(ctx, OpRefresh)
	defer func() { end(&res) }()

	applied, err := c.refresh(ctx)
	res.Err = err
	res.Superseded = err == nil && !applied
	return res
}

// SelectFile replaces the pending upload. The category names the upload slot
// that received the file.
func (c *Controller) SelectFile(category Category, f *File) (*PendingUpload, error) {
	if category == "" || f == nil || f.Open == nil || strings.TrimSpace(f.Name) == "" {
		return nil, ErrMissingInput
	}
	parsed, ok := ParseCategory(string(category))
	if !ok {
		return nil, fmt.Errorf("%w: category %q", ErrInvalidInput, category)
	}

	p := &PendingUpload{
		ID:         uuid.New(),
		Category:   parsed,
		File:       f,
		SelectedAt: c.now(),
	}
	c.mu.Lock()
	c.pending = p
	c.mu.Unlock()
	return p, nil
}

// ClearSelection drops the pending upload, if any.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
}

// Upload sends the pending file to the store under "<unix-millis>-<name>",
// refreshes the list and clears the selection. Without a pending file and
// category it fails with ErrMissingInput and the store is not called. A failed
// upload keeps the selection so it can be retried.
func (c *Controller) Upload(ctx context.Context) (res Result) {
	ctx, res, end := c.begin(ctx, OpUpload)
	defer func() { end(&res) }()

	if c.currentPending() == nil {
		res.Err = ErrMissingInput
		return res
	}

	if err := c.acquire(ctx); err != nil {
		res.Err = err
		return res
	}
	defer c.mutations.Release(1)

	// A queued upload of the same selection finds it already cleared.
	pending := c.currentPending()
	if pending == nil {
		res.Err = ErrMissingInput
		return res
	}

	res.Key = c.objectKey(pending.File.Name)
	body, err := pending.File.Open()
	if err != nil {
		res.Err = fmt.Errorf("%w: open %q: %w", ErrStorage, pending.File.Name, err)
		return res
	}
	defer body.Close()

	if err := c.store.Upload(ctx, res.Key, body, pending.File.Size, pending.File.ContentType); err != nil {
		res.Err = classify(ctx, err)
		return res
	}

	if _, err := c.refresh(ctx); err != nil {
		res.Err = err
		res.Partial = true
	}

	c.mu.Lock()
	if c.pending != nil && c.pending.ID == pending.ID {
		c.pending = nil
	}
	c.mu.Unlock()
	return res
}

// Delete removes the named object and refreshes the list. There is no
// confirmation step. If the store reports the object missing the list is
// still refreshed so the stale entry disappears, and ErrNotFound is returned.
func (c *Controller) Delete(ctx context.Context, name string) (res Result) {
	ctx, res, end := c.begin(ctx, OpDelete)
	defer func() { end(&res) }()

	res.Key = name
	if strings.TrimSpace(name) == "" {
		res.Err = ErrMissingInput
		return res
	}

	if err := c.acquire(ctx); err != nil {
		res.Err = err
		return res
	}
	defer c.mutations.Release(1)

	if err := c.store.Delete(ctx, name); err != nil {
		res.Err = classify(ctx, err)
		if ReasonOf(res.Err) != ReasonNotFound {
			return res
		}
	}

	if _, err := c.refresh(ctx); err != nil && res.Err == nil {
		res.Err = err
		res.Partial = true
	}
	return res
}

// SetFilter changes which objects are visible. It does not touch the store.
func (c *Controller) SetFilter(f Filter) error {
	parsed, ok := ParseFilter(string(f))
	if !ok {
		return fmt.Errorf("%w: filter %q", ErrInvalidInput, f)
	}
	c.mu.Lock()
	c.filter = parsed
	c.mu.Unlock()
	return nil
}

// ToggleTheme flips the dark theme flag and returns the new value.
func (c *Controller) ToggleTheme() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dark = !c.dark
	return c.dark
}

// View returns the objects visible under the active filter.
func (c *Controller) View() []MediaObject {
	return c.Snapshot().Visible()
}

// Lookup finds an object of the current list by name.
func (c *Controller) Lookup(name string) (MediaObject, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, o := range c.objects {
		if o.Name == name {
			return o, nil
		}
	}
	return MediaObject{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Snapshot copies the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Objects:     slices.Clone(c.objects),
		Filter:      c.filter,
		DarkTheme:   c.dark,
		Pending:     c.pending,
		Phase:       c.phaseLocked(),
		RefreshedAt: c.refreshedAt,
		LastError:   c.lastErr,
	}
}

// Phase reports the operation in flight, preferring mutations over listings.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phaseLocked()
}

func (c *Controller) phaseLocked() Phase {
	switch {
	case c.inflight[OpDelete] > 0:
		return PhaseDeleting
	case c.inflight[OpUpload] > 0:
		return PhaseUploading
	case c.inflight[OpRefresh] > 0:
		return PhaseListing
	}
	return PhaseIdle
}

// refresh lists the store and applies the result unless a newer refresh has
// already been applied. It reports whether the listing was applied.
func (c *Controller) refresh(ctx context.Context) (bool, error) {
	c.mu.Lock()
	c.issued++
	ticket := c.issued
	c.mu.Unlock()

	listed, err := c.store.List(ctx)
	if err != nil {
		// Listings issued before this one must not overwrite what it would have shown.
		c.mu.Lock()
		c.applied = max(c.applied, ticket)
		c.mu.Unlock()
		return false, classify(ctx, err)
	}

	objects := make([]MediaObject, 0, len(listed))
	for _, o := range listed {
		objects = append(objects, fromStorage(o, c.store.PublicURL(o.Key)))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ticket < c.applied {
		return false, nil
	}
	c.applied = ticket
	c.objects = objects
	c.refreshedAt = c.now()
	return true, nil
}

func (c *Controller) acquire(ctx context.Context) error {
	if c.reject {
		if !c.mutations.TryAcquire(1) {
			return ErrBusy
		}
		return nil
	}
	if err := c.mutations.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	return nil
}

func (c *Controller) currentPending() *PendingUpload {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil || c.pending.Category == "" || c.pending.File == nil {
		return nil
	}
	return c.pending
}

// objectKey prefixes the file's base name with the current Unix time in
// milliseconds. Uniqueness is not checked.
func (c *Controller) objectKey(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	return fmt.Sprintf("%d-%s", c.now().UnixMilli(), base)
}

// begin marks op as in flight and returns a function that records the
// outcome: in-flight counters, span status and one log line.
func (c *Controller) begin(ctx context.Context, op Operation) (context.Context, Result, func(*Result)) {
	res := Result{Op: op, ID: uuid.New()}
	ctx, span := c.tracer.Start(ctx, "gallery."+op.String(),
		trace.WithAttributes(attribute.String("gallery.op_id", res.ID.String())))

	c.mu.Lock()
	c.inflight[op]++
	c.mu.Unlock()

	start := time.Now()
	return ctx, res, func(r *Result) {
		c.mu.Lock()
		c.inflight[op]--
		c.lastErr = r.Err
		c.mu.Unlock()

		attrs := []any{
			slog.String("op", op.String()),
			slog.String("op_id", r.ID.String()),
			slog.Duration("duration", time.Since(start)),
		}
		if r.Key != "" {
			attrs = append(attrs, slog.String("key", r.Key))
			span.SetAttributes(attribute.String("gallery.key", r.Key))
		}

		switch {
		case r.Err == nil:
			c.log.InfoContext(ctx, "gallery operation completed", append(attrs, slog.Bool("superseded", r.Superseded))...)
		case r.Reason() == ReasonStorage || r.Partial:
			span.RecordError(r.Err)
			span.SetStatus(codes.Error, r.Err.Error())
			c.log.ErrorContext(ctx, "gallery operation failed",
				append(attrs, slog.String("reason", string(r.Reason())), slog.Bool("partial", r.Partial), slog.String("error", r.Err.Error()))...)
		default:
			span.SetStatus(codes.Error, r.Err.Error())
			c.log.WarnContext(ctx, "gallery operation rejected",
				append(attrs, slog.String("reason", string(r.Reason())), slog.String("error", r.Err.Error()))...)
		}
		span.End()
	}
}
