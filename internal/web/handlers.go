package web

import (
	"database/sql"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/hpungsan/quip/internal/config"
	"github.com/hpungsan/quip/internal/engine"
	"github.com/hpungsan/quip/internal/errors"
	"github.com/hpungsan/quip/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	eng      *engine.Engine
	cfg      *config.Config
	logger   *slog.Logger
	renderer *Renderer
}

// HandleTree handles GET /tree?path= — list the children of a folder.
func (h *Handlers) HandleTree(w http.ResponseWriter, r *http.Request) {
	tree, err := ops.Tree(h.eng, ops.TreeInput{Path: r.URL.Query().Get("path")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, tree)
		return
	}

	h.renderer.renderPage(w, r, "tree", TreePageData{
		PageData: h.renderer.page(tree.Title, "tree"),
		Tree:     tree,
		Crumbs:   crumbs(tree.Path),
	})
}

// HandlePhrase handles GET /phrase?path= — show one phrase with its body previewed.
func (h *Handlers) HandlePhrase(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("path is required"))
		return
	}

	p, err := ops.Phrase(h.eng, ops.PhraseInput{Path: path})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, p)
		return
	}

	h.renderer.renderPage(w, r, "phrase", PhrasePageData{
		PageData:     h.renderer.page(p.Description, "tree"),
		Phrase:       p,
		RenderedHTML: renderMarkdown(p.Body),
		Crumbs:       crumbs(p.Path[:strings.LastIndex(p.Path, "/")]),
	})
}

// HandleStats handles GET /stats?path= — phrases ranked by usage.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := ops.Stats(h.eng, ops.StatsInput{
		Path:  r.URL.Query().Get("path"),
		Limit: parseIntParam(r, "limit", ops.DefaultStatsLimit),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, stats)
		return
	}

	h.renderer.renderPage(w, r, "stats", StatsPageData{
		PageData: h.renderer.page("Usage", "stats"),
		Stats:    stats,
	})
}

// HandleCheck handles GET /check?buffer=&window= — dry-run the trigger search.
// Nothing is recorded and usage counts are left alone.
func (h *Handlers) HandleCheck(w http.ResponseWriter, r *http.Request) {
	data := CheckPageData{
		PageData: h.renderer.page("Check", "check"),
		Buffer:   r.URL.Query().Get("buffer"),
		Window:   r.URL.Query().Get("window"),
	}
	data.HasQuery = data.Buffer != ""

	if data.HasQuery {
		result, err := ops.Preview(h.eng, data.Buffer, data.Window)
		switch {
		case errors.Is(err, errors.ErrNoMatch):
			data.Message = "No trigger matched."
		case err != nil:
			h.renderer.renderError(w, r, err)
			return
		default:
			data.Result = result
		}
	}

	h.renderer.renderPage(w, r, "check", data)
}

// HandleHistory handles GET /history — recorded expansions, newest first.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	result, err := ops.History(r.Context(), h.db, ops.HistoryInput{
		Limit:  parseIntParam(r, "limit", h.cfg.HistoryLimit),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "history", HistoryPageData{
		PageData:   h.renderer.page("History", "history"),
		Items:      result.Items,
		Pagination: result.Pagination,
	})
}

// HandlePurge handles POST /history/purge — permanently delete history records.
func (h *Handlers) HandlePurge(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	if r.FormValue("confirm") != "true" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("confirm parameter must be \"true\""))
		return
	}

	var input ops.PurgeInput
	if days := r.FormValue("older_than_days"); days != "" {
		d, err := strconv.Atoi(days)
		if err != nil {
			h.renderer.renderError(w, r, errors.NewInvalidRequest("older_than_days must be an integer"))
			return
		}
		input.OlderThanDays = d
	}

	result, err := ops.Purge(r.Context(), h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`<div class="purge-result">` + template.HTMLEscapeString(result.Message) + `</div>`))
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	http.Redirect(w, r, "/history", http.StatusFound)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
