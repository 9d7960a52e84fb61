package gallery

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/radif/gallery/internal/response"
)

// Handler holds the JSON API handlers for the gallery.
type Handler struct {
	ctl       *Controller
	maxUpload int64
}

// NewHandler creates a new gallery Handler. maxUpload caps multipart bodies.
func NewHandler(ctl *Controller, maxUpload int64) *Handler {
	return &Handler{ctl: ctl, maxUpload: maxUpload}
}

// RegisterRoutes mounts the API handlers on r. It is meant to be called
// inside the /api/v1 route group.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/gallery", func(r chi.Router) {
		r.Get("/", h.GetGallery)
		r.Post("/refresh", h.Refresh)
		r.Put("/filter", h.SetFilter)
		r.Post("/theme", h.ToggleTheme)
		r.Post("/selection", h.SelectFile)
		r.Delete("/selection", h.ClearSelection)
		r.Post("/upload", h.UploadPending)
	})
	r.Route("/media", func(r chi.Router) {
		r.Post("/", h.UploadMedia)
		r.Delete("/{name}", h.DeleteMedia)
		r.Get("/{name}/download", h.Download)
	})
}

type mediaBody struct {
	Name         string     `json:"name"         example:"1700000000000-cat.png"`
	Title        string     `json:"title"        example:"1700000000000-cat"`
	URL          string     `json:"url"          example:"http://localhost:9000/gallery/1700000000000-cat.png"`
	ContentType  string     `json:"contentType"  example:"image/png"`
	Category     string     `json:"category"     example:"image"`
	Size         int64      `json:"size,omitempty"`
	LastModified *time.Time `json:"lastModified,omitempty"`
}

type pendingBody struct {
	ID          string `json:"id"`
	Category    string `json:"category"    example:"image"`
	Name        string `json:"name"        example:"cat.png"`
	ContentType string `json:"contentType" example:"image/png"`
	Size        int64  `json:"size"`
}

type galleryBody struct {
	Objects     []mediaBody  `json:"objects"`
	Visible     []mediaBody  `json:"visible"`
	Filter      string       `json:"filter"    example:"all"`
	DarkTheme   bool         `json:"darkTheme"`
	Phase       string       `json:"phase"     example:"idle"`
	Loading     bool         `json:"loading"`
	Pending     *pendingBody `json:"pending,omitempty"`
	RefreshedAt *time.Time   `json:"refreshedAt,omitempty"`
	LastError   string       `json:"lastError,omitempty"`
}

type resultBody struct {
	Op         string `json:"op"  example:"upload"`
	ID         string `json:"id"`
	Key        string `json:"key,omitempty" example:"1700000000000-cat.png"`
	Partial    bool   `json:"partial,omitempty"`
	Superseded bool   `json:"superseded,omitempty"`
	Error      string `json:"error,omitempty"`
}

type operationBody struct {
	Result  resultBody  `json:"result"`
	Gallery galleryBody `json:"gallery"`
}

type filterRequest struct {
	Filter string `json:"filter" example:"image"`
}

type themeBody struct {
	DarkTheme bool `json:"darkTheme"`
}

func toMediaBodies(objects []MediaObject) []mediaBody {
	out := make([]mediaBody, 0, len(objects))
	for _, o := range objects {
		b := mediaBody{
			Name:        o.Name,
			Title:       o.Title(),
			URL:         o.URL,
			ContentType: o.ContentType,
			Category:    string(o.Category()),
			Size:        o.Size,
		}
		if !o.LastModified.IsZero() {
			lm := o.LastModified
			b.LastModified = &lm
		}
		out = append(out, b)
	}
	return out
}

func toGalleryBody(s State) galleryBody {
	b := galleryBody{
		Objects:   toMediaBodies(s.Objects),
		Visible:   toMediaBodies(s.Visible()),
		Filter:    string(s.Filter),
		DarkTheme: s.DarkTheme,
		Phase:     string(s.Phase),
		Loading:   s.Loading(),
	}
	if p := s.Pending; p != nil && p.File != nil {
		b.Pending = &pendingBody{
			ID:          p.ID.String(),
			Category:    string(p.Category),
			Name:        p.File.Name,
			ContentType: p.File.ContentType,
			Size:        p.File.Size,
		}
	}
	if !s.RefreshedAt.IsZero() {
		at := s.RefreshedAt
		b.RefreshedAt = &at
	}
	if s.LastError != nil {
		b.LastError = s.LastError.Error()
	}
	return b
}

// statusFor maps a failure reason to an HTTP status.
func statusFor(reason Reason) int {
	switch reason {
	case ReasonMissingInput, ReasonInvalidInput:
		return http.StatusBadRequest
	case ReasonNotFound:
		return http.StatusNotFound
	case ReasonBusy:
		return http.StatusConflict
	case ReasonCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// writeError writes err with the status of its reason.
func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errTooLarge) {
		response.TooLarge(w, err.Error())
		return
	}
	reason := ReasonOf(err)
	response.Fail(w, statusFor(reason), string(reason), err.Error(), nil)
}

// writeResult writes an operation outcome together with the resulting state.
// A partial result (mutation done, refresh failed) is reported as success.
func (h *Handler) writeResult(w http.ResponseWriter, res Result, ok func(http.ResponseWriter, any)) {
	body := operationBody{
		Result: resultBody{
			Op:         res.Op.String(),
			ID:         res.ID.String(),
			Key:        res.Key,
			Partial:    res.Partial,
			Superseded: res.Superseded,
		},
		Gallery: toGalleryBody(h.ctl.Snapshot()),
	}
	if res.Err != nil {
		body.Result.Error = res.Err.Error()
	}

	if res.OK() || res.Partial {
		ok(w, body)
		return
	}
	reason := res.Reason()
	response.Fail(w, statusFor(reason), string(reason), res.Err.Error(), body)
}

// nameParam returns the unescaped {name} route parameter. chi matches against
// RawPath when the request carries one, and against the decoded Path otherwise.
func nameParam(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return raw
	}
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

// GetGallery godoc
//
//	@Summary		Get gallery state
//	@Description	Returns the object list, the visible subset under the active filter, the theme flag, the pending upload and whether an operation is in flight. An optional filter query parameter changes the active filter first.
//	@Tags			gallery
//	@Produce		json
//	@Param			filter	query		string	false	"all, image, video or audio"
//	@Success		200		{object}	response.Envelope{data=galleryBody}
//	@Failure		400		{object}	response.Envelope
//	@Router			/gallery [get]
func (h *Handler) GetGallery(w http.ResponseWriter, r *http.Request) {
	if f := r.URL.Query().Get("filter"); f != "" {
		if err := h.ctl.SetFilter(Filter(f)); err != nil {
			writeError(w, err)
			return
		}
	}
	response.OK(w, toGalleryBody(h.ctl.Snapshot()))
}

// Refresh godoc
//
//	@Summary		Refresh object list
//	@Description	Re-lists the container and replaces the object list. On failure the previous list is kept.
//	@Tags			gallery
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=operationBody}
//	@Failure		502	{object}	response.Envelope{data=operationBody}
//	@Router			/gallery/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, h.ctl.Refresh(r.Context()), response.OK)
}

// SetFilter godoc
//
//	@Summary		Set filter
//	@Description	Changes which objects are visible. Does not contact storage.
//	@Tags			gallery
//	@Accept			json
//	@Produce		json
//	@Param			request	body		filterRequest	true	"Filter"
//	@Success		200		{object}	response.Envelope{data=galleryBody}
//	@Failure		400		{object}	response.Envelope
//	@Router			/gallery/filter [put]
func (h *Handler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.ctl.SetFilter(Filter(req.Filter)); err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, toGalleryBody(h.ctl.Snapshot()))
}

// ToggleTheme godoc
//
//	@Summary		Toggle theme
//	@Description	Flips the dark theme flag. Not persisted across restarts.
//	@Tags			gallery
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=themeBody}
//	@Router			/gallery/theme [post]
func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	response.OK(w, themeBody{DarkTheme: h.ctl.ToggleTheme()})
}

// SelectFile godoc
//
//	@Summary		Select a file
//	@Description	Replaces the pending upload with the given file for the given category slot.
//	@Tags			gallery
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			category	formData	string	true	"image, video or audio"
//	@Param			file		formData	file	true	"File to upload"
//	@Success		200			{object}	response.Envelope{data=galleryBody}
//	@Failure		400			{object}	response.Envelope
//	@Failure		413			{object}	response.Envelope
//	@Router			/gallery/selection [post]
func (h *Handler) SelectFile(w http.ResponseWriter, r *http.Request) {
	if err := parseUploadForm(w, r, h.maxUpload); err != nil {
		writeError(w, err)
		return
	}
	if err := h.ctl.selectFromForm(r); err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, toGalleryBody(h.ctl.Snapshot()))
}

// ClearSelection godoc
//
//	@Summary		Clear selection
//	@Description	Drops the pending upload.
//	@Tags			gallery
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=galleryBody}
//	@Router			/gallery/selection [delete]
func (h *Handler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	h.ctl.ClearSelection()
	response.OK(w, toGalleryBody(h.ctl.Snapshot()))
}

// UploadPending godoc
//
//	@Summary		Upload the selected file
//	@Description	Uploads the pending file as "<unix-millis>-<name>", refreshes the list and clears the selection.
//	@Tags			gallery
//	@Produce		json
//	@Success		201	{object}	response.Envelope{data=operationBody}
//	@Failure		400	{object}	response.Envelope{data=operationBody}
//	@Failure		409	{object}	response.Envelope{data=operationBody}
//	@Failure		502	{object}	response.Envelope{data=operationBody}
//	@Router			/gallery/upload [post]
func (h *Handler) UploadPending(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, h.ctl.Upload(r.Context()), response.Created)
}

// UploadMedia godoc
//
//	@Summary		Select and upload in one request
//	@Description	Equivalent to POST /gallery/selection followed by POST /gallery/upload.
//	@Tags			media
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			category	formData	string	true	"image, video or audio"
//	@Param			file		formData	file	true	"File to upload"
//	@Success		201			{object}	response.Envelope{data=operationBody}
//	@Failure		400			{object}	response.Envelope
//	@Failure		409			{object}	response.Envelope{data=operationBody}
//	@Failure		413			{object}	response.Envelope
//	@Failure		502			{object}	response.Envelope{data=operationBody}
//	@Router			/media [post]
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	if err := parseUploadForm(w, r, h.maxUpload); err != nil {
		writeError(w, err)
		return
	}
	if err := h.ctl.selectFromForm(r); err != nil {
		writeError(w, err)
		return
	}
	h.writeResult(w, h.ctl.Upload(r.Context()), response.Created)
}

// DeleteMedia godoc
//
//	@Summary		Delete an object
//	@Description	Deletes the named object and refreshes the list. No confirmation step.
//	@Tags			media
//	@Produce		json
//	@Param			name	path		string	true	"Object name"
//	@Success		200		{object}	response.Envelope{data=operationBody}
//	@Failure		404		{object}	response.Envelope{data=operationBody}
//	@Failure		409		{object}	response.Envelope{data=operationBody}
//	@Failure		502		{object}	response.Envelope{data=operationBody}
//	@Router			/media/{name} [delete]
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, h.ctl.Delete(r.Context(), nameParam(r)), response.OK)
}

// Download godoc
//
//	@Summary		Download an object
//	@Description	Redirects to the object's directly fetchable URL.
//	@Tags			media
//	@Param			name	path	string	true	"Object name"
//	@Success		302
//	@Failure		404	{object}	response.Envelope
//	@Router			/media/{name}/download [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	obj, err := h.ctl.Lookup(nameParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, obj.URL, http.StatusFound)
}
