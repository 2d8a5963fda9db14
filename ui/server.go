// Package ui serves the rendered report over HTTP. The server holds no
// report state: every request runs the pipeline against the configured
// exports, so a refreshed export shows up on the next page load.
package ui

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"admreport/app"
	"admreport/domain/core"
	"admreport/internal"
)

// Server is the report viewer.
type Server struct {
	router  *chi.Mux
	service *app.ReportService
	opts    app.Options
	logger  *internal.Logger
}

// NewServer wires the viewer routes over a report service.
func NewServer(service *app.ReportService, opts app.Options) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		service: service,
		opts:    opts,
		logger:  internal.DefaultLogger,
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", s.handleReportHTML)
	s.router.Get("/report.md", s.handleReportMarkdown)
	s.router.Get("/report.json", s.handleReportJSON)
	s.router.Get("/report.xlsx", s.handleReportWorkbook)
	s.router.Get("/models/{name}", s.handleModelDetail)
	return s
}

// Handler exposes the router for serving and for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving the viewer on the given port.
func (s *Server) ListenAndServe(port string) error {
	s.logger.Info("report viewer listening on :%s", port)
	return http.ListenAndServe(":"+port, s.router)
}

func (s *Server) handleReportHTML(w http.ResponseWriter, r *http.Request) {
	rep, err := s.service.GenerateReport(r.Context(), s.opts)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.service.Assembler().HTML(rep))
}

func (s *Server) handleReportMarkdown(w http.ResponseWriter, r *http.Request) {
	rep, err := s.service.GenerateReport(r.Context(), s.opts)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write(s.service.Assembler().Markdown(rep))
}

func (s *Server) handleReportJSON(w http.ResponseWriter, r *http.Request) {
	rep, err := s.service.GenerateReport(r.Context(), s.opts)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, rep)
}

func (s *Server) handleReportWorkbook(w http.ResponseWriter, r *http.Request) {
	rep, err := s.service.GenerateReport(r.Context(), s.opts)
	if err != nil {
		s.fail(w, err)
		return
	}
	wb, err := s.service.Assembler().Workbook(rep)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="report.xlsx"`)
	if err := wb.Write(w); err != nil {
		s.logger.Error("write workbook: %v", err)
	}
}

func (s *Server) handleModelDetail(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	detail, err := s.service.DescribeModel(r.Context(), name)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, detail)
}

// fail maps configuration errors to 400s; anything else is a 500.
func (s *Server) fail(w http.ResponseWriter, err error) {
	s.logger.Error("request failed: %v", err)
	status := http.StatusInternalServerError
	if core.IsConfigurationError(err) {
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}

// writeJSON encodes v; the status line is already out by the time an
// encode error can surface, so it is logged rather than reported.
func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.logger.Error("encode response: %v", err)
	}
}
