package gallery

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/radif/gallery/internal/logger"
)

//go:embed templates
var templatesFS embed.FS

// noticePartial and noticeTooLarge extend the failure reasons shown on the page.
const (
	noticePartial  = "partial"
	noticeTooLarge = "too_large"
)

var notices = map[string]string{
	string(ReasonMissingInput): "Please select a file type and file to upload",
	string(ReasonInvalidInput): "That file type or filter is not supported",
	string(ReasonNotFound):     "That file no longer exists",
	string(ReasonBusy):         "Another upload or delete is in progress",
	string(ReasonCanceled):     "The request was canceled",
	string(ReasonStorage):      "Storage is unavailable, try again",
	noticePartial:              "Done, but the list could not be refreshed",
	noticeTooLarge:             "The file exceeds the upload limit",
}

type slotMeta struct {
	category Category
	label    string
	icon     string
}

var slots = []slotMeta{
	{CategoryImage, "Image", "🖼️"},
	{CategoryVideo, "Video", "🎥"},
	{CategoryAudio, "Audio", "🎧"},
}

var filterLabels = map[Filter]string{
	FilterAll:   "All",
	FilterImage: "Images",
	FilterVideo: "Videos",
	FilterAudio: "Audios",
}

type filterOption struct {
	Value    string
	Label    string
	Selected bool
}

type uploadSlot struct {
	Category string
	Label    string
	Icon     string
	Selected bool
	FileName string
	Preview  string
}

type card struct {
	Name  string
	Title string
	URL   string
	Kind  string
}

type pageData struct {
	Dark       bool
	Loading    bool
	Notice     string
	Filters    []filterOption
	Slots      []uploadSlot
	Cards      []card
	HasPending bool
}

// Page renders the HTML gallery. Every form posts to a /ui route which
// redirects back to the page.
type Page struct {
	ctl       *Controller
	tmpl      *template.Template
	maxUpload int64
	log       *slog.Logger
}

// NewPage parses the embedded templates.
func NewPage(ctl *Controller, maxUpload int64, log *slog.Logger) (*Page, error) {
	tmpl, err := template.New("gallery.html").
		Option("missingkey=error").
		ParseFS(templatesFS, "templates/gallery.html")
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNope()
	}
	return &Page{ctl: ctl, tmpl: tmpl, maxUpload: maxUpload, log: log}, nil
}

// RegisterRoutes mounts the page and its form handlers on r.
func (p *Page) RegisterRoutes(r chi.Router) {
	r.Get("/", p.Index)
	r.Route("/ui", func(r chi.Router) {
		r.Get("/pending", p.PendingPreview)
		r.Post("/select", p.Select)
		r.Post("/upload", p.Upload)
		r.Post("/delete", p.Delete)
		r.Post("/filter", p.Filter)
		r.Post("/theme", p.Theme)
		r.Post("/refresh", p.Refresh)
	})
}

// Index renders the gallery. A filter query parameter changes the active
// filter first.
func (p *Page) Index(w http.ResponseWriter, r *http.Request) {
	notice := r.URL.Query().Get("notice")
	if f := r.URL.Query().Get("filter"); f != "" {
		if err := p.ctl.SetFilter(Filter(f)); err != nil {
			notice = string(ReasonOf(err))
		}
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, p.data(notices[notice])); err != nil {
		p.log.ErrorContext(r.Context(), "render gallery page", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (p *Page) data(notice string) pageData {
	s := p.ctl.Snapshot()
	d := pageData{
		Dark:    s.DarkTheme,
		Loading: s.Loading(),
		Notice:  notice,
	}
	for _, f := range Filters {
		d.Filters = append(d.Filters, filterOption{Value: string(f), Label: filterLabels[f], Selected: f == s.Filter})
	}
	for _, m := range slots {
		slot := uploadSlot{Category: string(m.category), Label: m.label, Icon: m.icon}
		if pu := s.Pending; pu != nil && pu.Category == m.category && pu.File != nil {
			slot.Selected = true
			slot.FileName = pu.File.Name
			slot.Preview = "/ui/pending?id=" + url.QueryEscape(pu.ID.String())
			d.HasPending = true
		}
		d.Slots = append(d.Slots, slot)
	}
	for _, o := range s.Visible() {
		d.Cards = append(d.Cards, card{Name: o.Name, Title: o.Title(), URL: o.URL, Kind: string(o.Category())})
	}
	return d
}

// PendingPreview serves the bytes of the pending upload so the page can
// preview it before it is sent to storage.
func (p *Page) PendingPreview(w http.ResponseWriter, r *http.Request) {
	pu := p.ctl.Snapshot().Pending
	if pu == nil || pu.File == nil || pu.File.Open == nil {
		http.NotFound(w, r)
		return
	}
	if id := r.URL.Query().Get("id"); id != "" && id != pu.ID.String() {
		http.NotFound(w, r)
		return
	}
	body, err := pu.File.Open()
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", pu.File.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = io.Copy(w, body)
}

// Select stores the chosen file as the pending upload.
func (p *Page) Select(w http.ResponseWriter, r *http.Request) {
	if err := parseUploadForm(w, r, p.maxUpload); err != nil {
		p.back(w, r, noticeFor(err))
		return
	}
	if err := p.ctl.selectFromForm(r); err != nil {
		p.back(w, r, noticeFor(err))
		return
	}
	p.back(w, r, "")
}

// Upload sends the pending file. A form that also carries a file selects it
// first.
func (p *Page) Upload(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := parseUploadForm(w, r, p.maxUpload); err != nil {
			p.back(w, r, noticeFor(err))
			return
		}
		f, err := formFile(r, "file")
		if err != nil {
			p.back(w, r, noticeFor(err))
			return
		}
		if f != nil {
			if err := p.ctl.selectFormFile(r, f); err != nil {
				p.back(w, r, noticeFor(err))
				return
			}
		}
	}
	p.back(w, r, resultNotice(p.ctl.Upload(r.Context())))
}

// Delete removes the object named by the "name" field.
func (p *Page) Delete(w http.ResponseWriter, r *http.Request) {
	p.back(w, r, resultNotice(p.ctl.Delete(r.Context(), r.FormValue("name"))))
}

// Filter changes the active filter.
func (p *Page) Filter(w http.ResponseWriter, r *http.Request) {
	if err := p.ctl.SetFilter(Filter(r.FormValue("filter"))); err != nil {
		p.back(w, r, noticeFor(err))
		return
	}
	p.back(w, r, "")
}

// Theme toggles between the light and dark theme.
func (p *Page) Theme(w http.ResponseWriter, r *http.Request) {
	p.ctl.ToggleTheme()
	p.back(w, r, "")
}

// Refresh re-lists the container.
func (p *Page) Refresh(w http.ResponseWriter, r *http.Request) {
	p.back(w, r, resultNotice(p.ctl.Refresh(r.Context())))
}

func (p *Page) back(w http.ResponseWriter, r *http.Request, notice string) {
	target := "/"
	if notice != "" {
		target += "?notice=" + url.QueryEscape(notice)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func noticeFor(err error) string {
	if errors.Is(err, errTooLarge) {
		return noticeTooLarge
	}
	return string(ReasonOf(err))
}

func resultNotice(res Result) string {
	switch {
	case res.OK():
		return ""
	case res.Partial:
		return noticePartial
	default:
		return string(res.Reason())
	}
}
