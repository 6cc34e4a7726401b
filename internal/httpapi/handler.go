package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hiddenuae/gems-service/internal/gem"
	"github.com/hiddenuae/gems-service/internal/locale"
	"github.com/hiddenuae/gems-service/internal/progress"
	"github.com/hiddenuae/gems-service/internal/search"
)

const (
	serviceTimeout      = 10 * time.Second
	reloadTimeout       = 30 * time.Second
	maxSubmissionBytes  = 64 << 10
	maxLocaleBytes      = 1 << 10
	defaultSuggestLimit = 5
	maxSuggestLimit     = 20
)

// CatalogReloader refetches the catalog sources.
type CatalogReloader interface {
	Load(ctx context.Context) gem.Catalog
}

// Dependencies are the collaborators the routes are served from.
// Reloader may be nil, in which case the reload route is not registered.
type Dependencies struct {
	Service  *progress.Service
	Searcher *search.Searcher
	Catalog  *gem.Holder
	Reloader CatalogReloader
	Logger   *slog.Logger
}

type handler struct {
	service  *progress.Service
	searcher *search.Searcher
	catalog  *gem.Holder
	reloader CatalogReloader
	logger   *slog.Logger
}

// gemView is a catalog record plus its display fields for one locale.
type gemView struct {
	gem.Gem
	Name         string           `json:"name"`
	Area         string           `json:"area"`
	Description  string           `json:"description"`
	EmirateLabel string           `json:"emirateLabel"`
	BudgetLabel  string           `json:"budgetLabel"`
	Unlocked     bool             `json:"unlocked"`
	Locale       locale.Locale    `json:"locale"`
	Direction    locale.Direction `json:"dir"`
}

type localeRequest struct {
	Locale string `json:"locale"`
}

type localeResponse struct {
	Locale    locale.Locale     `json:"locale"`
	Direction locale.Direction  `json:"dir"`
	Emirates  map[string]string `json:"emirates"`
	Budgets   map[string]string `json:"budgets"`
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{
		service:  deps.Service,
		searcher: deps.Searcher,
		catalog:  deps.Catalog,
		reloader: deps.Reloader,
		logger:   logger,
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/locales/{locale}", h.getLocale)

		r.Route("/gems", func(r chi.Router) {
			r.Get("/", h.listGems)
			r.Get("/suggest", h.suggestGems)
			r.Get("/{id}", h.getGem)
			r.Post("/{id}/unlock", h.unlockGem)
		})

		r.Get("/progress", h.getProgress)
		r.Put("/progress/locale", h.setLocale)
		r.Get("/badges", h.listBadges)
		r.Get("/collection", h.getCollection)
		r.Get("/share", h.getShare)

		r.Get("/submissions", h.listSubmissions)
		r.Post("/submissions", h.createSubmission)

		if h.reloader != nil {
			r.Post("/catalog/reload", h.reloadCatalog)
		}
	})
}

func (h *handler) getLocale(w http.ResponseWriter, r *http.Request) {
	l, err := locale.Parse(chi.URLParam(r, "locale"))
	if err != nil {
		writeError(w, r, codeBadRequest, "unsupported locale; allowed: en, ar")
		return
	}

	resp := localeResponse{
		Locale:    l,
		Direction: l.Direction(),
		Emirates:  make(map[string]string, len(gem.Emirates)),
		Budgets:   make(map[string]string, len(gem.Budgets)),
	}
	for _, e := range gem.Emirates {
		resp.Emirates[string(e)] = locale.EmirateLabel(l, string(e))
	}
	for _, b := range gem.Budgets {
		resp.Budgets[string(b)] = locale.BudgetLabel(l, string(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) listGems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
	defer cancel()

	state := h.service.Progress(ctx)
	l, ok := h.requestLocale(w, r, state)
	if !ok {
		return
	}

	q := r.URL.Query()
	filters := search.Filters{
		Emirate: strings.TrimSpace(q.Get("emirate")),
		Budget:  strings.TrimSpace(q.Get("budget")),
		Search:  q.Get("q"),
	}
	if raw := strings.TrimSpace(q.Get("photogenic")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, codeBadRequest, "photogenic must be a boolean")
			return
		}
		filters.PhotogenicOnly = v
	}

	gems := h.searcher.Search(filters, l)
	items := make([]gemView, 0, len(gems))
	for _, g := range gems {
		items = append(items, newGemView(g, l, state.IsUnlocked(g.ID)))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":       items,
		"total_items": len(items),
		"filters":     filters.Normalized(),
	})
}

func (h *handler) suggestGems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
	defer cancel()

	l, ok := h.requestLocale(w, r, h.service.Progress(ctx))
	if !ok {
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, r, codeBadRequest, "q is required")
		return
	}
	limit := clampInt(parsePositiveInt(r.URL.Query().Get("limit"), defaultSuggestLimit), 1, maxSuggestLimit)

	suggestions := h.searcher.Suggest(query, l, limit)
	if suggestions == nil {
		suggestions = []search.Suggestion{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": suggestions})
}

func (h *handler) getGem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	g, found := h.catalog.Current().Get(id)
	if !found {
		writeError(w, r, codeNotFound, "gem not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
	defer cancel()

	state := h.service.Progress(ctx)
	l, ok := h.requestLocale(w, r, state)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newGemView(g, l, state.IsUnlocked(g.ID)))
}

func (h *handler) unlockGem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
	defer cancel()

	result, err := h.service.Unlock(ctx, id)
	if err != nil {
		h.respondServiceError(w, r, "failed to unlock gem", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) getProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
	defer cancel()

	writeJSON(w, http.StatusOK, h.service.Progress(ctx))
}

func (h *handler) setLocale(w http.ResponseWriter, r *http.Request) {
	var req localeRequest
	if err := decodeJSON(w, r, maxLocaleBytes, &req); err != nil {
		respondDecodeError(w, r, err)
		return
	}
	l, err := locale.Parse(req.Locale)
	if err != nil {
		writeError(w, r, codeBadRequest, "unsupported locale; allowed: en, ar")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
	defer cancel()

	state, err := h.service.SetLocale(ctx, l)
	if err != nil {
		h.respondServiceError(w, r, "failed to set locale", err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *handler) listBadges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
	defer cancel()

	badges := h.service.Badges(ctx)
	earned := 0
	for _, b := range badges {
		if b.Earned {
			earned++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":  badges,
		"earned": earned,
	})
}

func (h *handler) getCollection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
	defer cancel()

	state := h.service.Progress(ctx)
	l, ok := h.requestLocale(w, r, state)
	if !ok {
		return
	}
	gems := h.service.Collection(ctx)
	items := make([]gemView, 0, len(gems))
	for _, g := range gems {
		items = append(items, newGemView(g, l, true))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":        items,
		"total_points": state.TotalPoints,
	})
}

func (h *handler) getShare(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
	defer cancel()

	l, ok := h.requestLocale(w, r, h.service.Progress(ctx))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.service.Share(ctx, l))
}

func (h *handler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
	defer cancel()

	items := h.service.Submissions(ctx)
	writeJSON(w, http.StatusOK, map[string]any{
		"items":       items,
		"total_items": len(items),
	})
}

func (h *handler) createSubmission(w http.ResponseWriter, r *http.Request) {
	var input progress.SubmissionInput
	if err := decodeJSON(w, r, maxSubmissionBytes, &input); err != nil {
		respondDecodeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
	defer cancel()

	sub, err := h.service.Submit(ctx, input)
	if err != nil {
		h.respondServiceError(w, r, "failed to store submission", err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *handler) reloadCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), reloadTimeout)
	defer cancel()

	catalog := h.reloader.Load(ctx)
	h.catalog.Replace(catalog)
	h.logger.Info("catalog reloaded", slog.Int("gems", catalog.Len()))
	writeJSON(w, http.StatusOK, map[string]int{"gems": catalog.Len()})
}

// requestLocale resolves the ?locale= parameter, falling back to the stored preference.
func (h *handler) requestLocale(w http.ResponseWriter, r *http.Request, state progress.State) (locale.Locale, bool) {
	raw := r.URL.Query().Get("locale")
	if raw == "" {
		return state.PreferredLocale, true
	}
	l, err := locale.Parse(raw)
	if err != nil {
		writeError(w, r, codeBadRequest, "unsupported locale; allowed: en, ar")
		return "", false
	}
	return l, true
}

func (h *handler) respondServiceError(w http.ResponseWriter, r *http.Request, message string, err error) {
	var verr *progress.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidationError(w, r, "submission is invalid", verr.Fields)
	case errors.Is(err, gem.ErrNotFound):
		writeError(w, r, codeNotFound, "gem not found")
	case errors.Is(err, locale.ErrInvalid):
		writeError(w, r, codeBadRequest, "unsupported locale; allowed: en, ar")
	default:
		logRequestError(r.Context(), h.logger, message, err)
		writeError(w, r, codeInternal, "internal server error")
	}
}

func newGemView(g gem.Gem, l locale.Locale, unlocked bool) gemView {
	g.ImageURLs = g.Images()
	return gemView{
		Gem:          g,
		Name:         g.Name(l),
		Area:         g.Area(l),
		Description:  g.Description(l),
		EmirateLabel: locale.EmirateLabel(l, string(g.Emirate)),
		BudgetLabel:  locale.BudgetLabel(l, string(g.Budget)),
		Unlocked:     unlocked,
		Locale:       l,
		Direction:    l.Direction(),
	}
}
