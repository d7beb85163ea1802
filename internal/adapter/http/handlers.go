package http

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"github.com/couchcryptid/quake-dashboard/internal/adapter/export"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/pipeline"
)

var templateFuncs = template.FuncMap{
	"magnitude": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
}

type errorResponse struct {
	Error string `json:"error"`
}

type pageData struct {
	Title        string
	View         *pipeline.View
	Warning      string
	EmptyMessage string
	MinBound     float64
	MaxBound     float64
	Step         float64
}

// handlePage renders the full dashboard. An invalid range falls back to the
// default with a warning instead of failing the page.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	rng, err := rangeFromQuery(r)
	var warning string
	if err != nil {
		warning = fmt.Sprintf("%v; showing the default range", err)
		rng = domain.DefaultRange
	}

	view, err := s.dash.Render(r.Context(), rng)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "render failed", "error", err)
		http.Error(w, "failed to load earthquake data: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err = s.page.Execute(&buf, pageData{
		Title:        pipeline.Title,
		View:         view,
		Warning:      warning,
		EmptyMessage: pipeline.EmptyRangeMessage,
		MinBound:     domain.MinMagnitude,
		MaxBound:     domain.MaxMagnitude,
		Step:         domain.MagnitudeStep,
	})
	if err != nil {
		s.logger.ErrorContext(r.Context(), "template execution failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	rng, err := rangeFromQuery(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	view, err := s.dash.Render(r.Context(), rng)
	if err != nil {
		s.renderFailed(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "csv", export.ContentTypeCSV, export.WriteCSV)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "xlsx", export.ContentTypeXLSX, export.WriteXLSX)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request, ext, contentType string, write func(io.Writer, *domain.Table) error) {
	rng, err := rangeFromQuery(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	tbl, err := s.dash.Filtered(r.Context(), rng)
	if err != nil {
		s.renderFailed(w, r, err)
		return
	}
	if tbl.Columns() == nil {
		writeError(w, r, http.StatusNotFound, errors.New("no earthquake data loaded"))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(rng, ext)))
	if err := write(w, tbl); err != nil {
		s.logger.ErrorContext(r.Context(), "export failed", "format", ext, "error", err)
		return
	}
	s.logger.InfoContext(r.Context(), "export complete", "format", ext, "rows", tbl.Len(), "range", rng.String())
}

// renderFailed maps a render error to a status: bad ranges are the caller's
// fault, anything else aborts the pass with 500.
func (s *Server) renderFailed(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrInvalidRange) {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	s.logger.ErrorContext(r.Context(), "render failed", "error", err)
	writeError(w, r, http.StatusInternalServerError, err)
}

func rangeFromQuery(r *http.Request) (domain.Range, error) {
	q := r.URL.Query()
	return domain.ParseRange(q.Get("min"), q.Get("max"))
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error()})
}
