package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/iwvelando/strac/internal/analysis"
	"github.com/iwvelando/strac/internal/config"
	"github.com/iwvelando/strac/internal/session"
	"github.com/iwvelando/strac/pkg/output"
	"github.com/iwvelando/strac/pkg/report"
	"github.com/iwvelando/strac/pkg/strac"
	"github.com/iwvelando/strac/pkg/validation"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

//go:embed static/*
var staticFiles embed.FS

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	sessions      *session.Store
}

// NewHandler constructs the HTTP handler that serves the web UI and the STRAC
// API. A nil cfg uses the defaults; a nil store gets a randomly keyed one.
func NewHandler(logger *zap.Logger, cfg *Config, sessions *session.Store, version string) (http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg == nil {
		var err error
		cfg, err = LoadConfig("")
		if err != nil {
			return nil, err
		}
	}

	if sessions == nil {
		var err error
		sessions, err = session.NewStore(logger, nil, cfg.SessionTTLDuration())
		if err != nil {
			return nil, err
		}
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: cfg.UploadSizeBytes(),
		version:       trimmedVersion,
		sessions:      sessions,
	}
	limiter := newIPRateLimiter(logger, rate.Limit(cfg.RateLimit), cfg.RateBurst)

	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.middleware, h.withSession)
	api.MethodNotAllowedHandler = http.HandlerFunc(h.handleMethodNotAllowed)

	api.HandleFunc("/basic", h.handleBasic).Methods(http.MethodPost)
	api.HandleFunc("/basic/import", h.handleBasicImport).Methods(http.MethodPost)
	api.HandleFunc("/target", h.handleTarget).Methods(http.MethodPost)
	api.HandleFunc("/session", h.handleSession).Methods(http.MethodGet)
	api.HandleFunc("/historical", h.handleHistorical).Methods(http.MethodPost)
	api.HandleFunc("/strategy", h.handleStrategy).Methods(http.MethodPost)
	api.HandleFunc("/strategy/xlsx", h.handleStrategyWorkbook).Methods(http.MethodPost)

	// Whole analysis files, as run by the CLI
	api.HandleFunc("/analysis", h.handleAnalysisUpload).Methods(http.MethodPost)
	api.HandleFunc("/report/pdf", h.handleReportPDF).Methods(http.MethodPost)
	api.HandleFunc("/export/yaml", h.handleConfigExport).Methods(http.MethodPost)

	api.HandleFunc("/version", h.handleVersion).Methods(http.MethodGet)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare embedded static files: %w", err)
	}
	router.PathPrefix("/").
		MatcherFunc(func(r *http.Request, _ *mux.RouteMatch) bool {
			return !strings.HasPrefix(r.URL.Path, "/api/")
		}).
		Handler(http.FileServer(http.FS(sub)))

	return router, nil
}

type basicResponse struct {
	Basic    *analysis.BasicReport `json:"basic"`
	Warnings []string              `json:"warnings,omitempty"`
}

type sessionResponse struct {
	Ready     bool        `json:"ready"`
	Baseline  strac.State `json:"baseline"`
	UpdatedAt *time.Time  `json:"updatedAt,omitempty"`
}

type historicalRequest struct {
	Base strac.State `json:"base"`
	New  strac.State `json:"new"`
}

type importResponse struct {
	Count    int                  `json:"count"`
	Results  []report.ImportedRow `json:"results"`
	Warnings []string             `json:"warnings,omitempty"`
}

type analysisResponse struct {
	Report   *analysis.Report `json:"report"`
	CSV      string           `json:"csv"`
	Duration string           `json:"duration"`
}

type reportRequest struct {
	Meta     report.Meta          `json:"meta"`
	Analysis config.Configuration `json:"analysis"`
}

func (h *handler) handleBasic(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleBasic"

	var in strac.Input
	if !h.decodeJSON(w, r, &in, op) {
		return
	}

	basic := analysis.NewBasicReport(in)
	sessionFrom(r).Store(basic.Result)

	resp := basicResponse{Basic: basic}
	if warning := validation.ValidateBasicInputs(in.UnsetCount()); warning != "" {
		resp.Warnings = append(resp.Warnings, warning)
	}

	h.logger.Info("basic calculation computed",
		zap.String("op", op),
		zap.Int("unset", in.UnsetCount()),
	)
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleTarget(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleTarget"

	var in strac.Input
	if !h.decodeJSON(w, r, &in, op) {
		return
	}

	target, err := analysis.NewTargetReport(sessionFrom(r), in)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	if target.Result == nil {
		h.respondErrorWithOp(w, http.StatusConflict, "Please run Basic Calculation first! ("+target.Error+")", op)
		return
	}

	h.writeJSON(w, http.StatusOK, target.Result)
}

func (h *handler) handleSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	resp := sessionResponse{Ready: sess.Ready(), Baseline: sess.Baseline()}
	if updated := sess.UpdatedAt(); !updated.IsZero() {
		resp.UpdatedAt = &updated
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleHistorical(w http.ResponseWriter, r *http.Request) {
	var req historicalRequest
	if !h.decodeJSON(w, r, &req, "server.handleHistorical") {
		return
	}
	h.writeJSON(w, http.StatusOK, analysis.NewHistoricalReport(req.Base, req.New))
}

func (h *handler) handleStrategy(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleStrategy"

	in, ok := h.decodeStrategy(w, r, op)
	if !ok {
		return
	}

	table, err := strac.Sweep(in)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.logger.Info("strategy sweep computed",
		zap.String("op", op),
		zap.String("strategy", string(in.Strategy)),
		zap.Int("rows", len(table.Rows)),
		zap.Bool("truncated", table.Truncated),
	)
	h.writeJSON(w, http.StatusOK, table)
}

func (h *handler) handleStrategyWorkbook(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleStrategyWorkbook"

	in, ok := h.decodeStrategy(w, r, op)
	if !ok {
		return
	}

	table, err := strac.Sweep(in)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteStrategyWorkbook(&buf, in, table); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\"mq-strategy.xlsx\"")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write workbook", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleBasicImport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleBasicImport"

	file, ok := h.formFile(w, r, op)
	if !ok {
		return
	}
	defer h.closeUpload(file, op)

	results, warnings, err := report.ImportBasicWorkbook(file)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.logger.Info("basic workbook imported",
		zap.String("op", op),
		zap.Int("rows", len(results)),
		zap.Int("skipped", len(warnings)),
	)
	h.writeJSON(w, http.StatusOK, importResponse{Count: len(results), Results: results, Warnings: warnings})
}

func (h *handler) handleAnalysisUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAnalysisUpload"
	start := time.Now()

	file, ok := h.formFile(w, r, op)
	if !ok {
		return
	}
	defer h.closeUpload(file, op)

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read analysis: %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(&buf)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	rep, err := analysis.Run(h.logger, *cfg, sessionFrom(r))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("analysis computed",
		zap.String("op", op),
		zap.Int("warnings", len(rep.Warnings)),
		zap.Duration("duration", elapsed),
	)
	h.writeJSON(w, http.StatusOK, analysisResponse{
		Report:   rep,
		CSV:      output.CsvString(rep),
		Duration: elapsed.String(),
	})
}

func (h *handler) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReportPDF"

	var req reportRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	// Render against a copy of the caller's baseline so that a basic
	// section in the request does not replace it.
	scratch := strac.NewSession()
	if caller := sessionFrom(r); caller.Ready() {
		scratch.Store(strac.NewResult(caller.Baseline()))
	}

	rep, err := analysis.Run(h.logger, req.Analysis, scratch)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	var buf bytes.Buffer
	if err := report.WritePDF(&buf, req.Meta, rep); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("report generation error: %v", err), op)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"strac-report.pdf\"")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write PDF", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"

	var cfg config.Configuration
	if !h.decodeJSON(w, r, &cfg, op) {
		return
	}

	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode analysis: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.respondErrorWithOp(w, http.StatusMethodNotAllowed, "method not allowed", "server.handleMethodNotAllowed")
}

func (h *handler) decodeStrategy(w http.ResponseWriter, r *http.Request, op string) (strac.StrategyInput, bool) {
	var req config.StrategyConfig
	if !h.decodeJSON(w, r, &req, op) {
		return strac.StrategyInput{}, false
	}
	in, err := req.StrategyInput()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return strac.StrategyInput{}, false
	}
	return in, true
}

func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) formFile(w http.ResponseWriter, r *http.Request, op string) (io.ReadCloser, bool) {
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return nil, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return nil, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing upload file", op)
		return nil, false
	}
	return file, true
}

func (h *handler) closeUpload(file io.Closer, op string) {
	if closeErr := file.Close(); closeErr != nil {
		h.logger.Warn("failed to close uploaded file",
			zap.String("op", op),
			zap.Error(closeErr),
		)
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
