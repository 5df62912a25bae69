package server

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/spektr-org/salescope/engine"
	"github.com/spektr-org/salescope/helpers"
	"github.com/spektr-org/salescope/schema"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

type detectResponse struct {
	Upload      *helpers.Upload      `json:"upload"`
	Mapping     schema.Mapping       `json:"mapping"`
	Columns     []schema.SummaryLine `json:"columns"`
	Assignments []schema.Assignment  `json:"assignments"`
}

// handleDetect returns the inferred role of each column.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res := schema.Infer(up.Table, s.inferOptions(r))
	render.JSON(w, r, detectResponse{
		Upload:      up,
		Mapping:     res.Mapping,
		Columns:     res.Mapping.Summary(),
		Assignments: res.Mapping.Found(),
	})
}

type charts struct {
	Series      *engine.ChartConfig `json:"series,omitempty"`
	TopProducts *engine.ChartConfig `json:"topProducts,omitempty"`
	TopStores   *engine.ChartConfig `json:"topStores,omitempty"`
}

type analyzeResponse struct {
	Upload *helpers.Upload `json:"upload"`
	Report *engine.Report  `json:"report"`
	Charts charts          `json:"charts"`
}

// handleAnalyze returns the full report for an uploaded dataset.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	params, err := s.paramsFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	up, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res := schema.Infer(up.Table, s.inferOptions(r))
	report, err := s.engine.Analyze(res, params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	render.JSON(w, r, analyzeResponse{
		Upload: up,
		Report: report,
		Charts: charts{
			Series:      engine.BuildSeriesChart(report.Series, params.Granularity, ""),
			TopProducts: engine.BuildTopChart(report.TopProducts, "products", report.TopMeasure),
			TopStores:   engine.BuildTopChart(report.TopStores, "stores", report.TopMeasure),
		},
	})
}

// handleExport returns the key columns as CSV (default) or XLSX.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		s.writeError(w, r, fmt.Errorf("%w: export format %q", helpers.ErrUnsupportedFormat, format))
		return
	}

	up, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res := schema.Infer(up.Table, s.inferOptions(r))
	extract := engine.Extract(res.Table, res.Mapping)
	if extract == nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, errorResponse{
			Error:     "no key columns detected for export",
			Status:    http.StatusUnprocessableEntity,
			RequestID: middleware.GetReqID(r.Context()),
		})
		return
	}

	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = helpers.WriteXLSX(&buf, extract, "extract")
	} else {
		err = helpers.WriteCSV(&buf, extract)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="sales_extract.%s"`, format))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) inferOptions(r *http.Request) schema.InferOptions {
	opts := s.opts.Infer
	opts.Logger = s.logger.With("request_id", middleware.GetReqID(r.Context()))
	return opts
}
