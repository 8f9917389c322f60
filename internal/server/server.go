// Package server exposes the calculator as a stateless JSON API. Every request
// carries the full inputs; the server keeps no session between requests.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/repair-reserve/internal/advisor"
	"github.com/iwvelando/repair-reserve/internal/config"
	"github.com/iwvelando/repair-reserve/internal/lookup"
	"github.com/iwvelando/repair-reserve/internal/reserve"
	"github.com/iwvelando/repair-reserve/internal/session"
	"github.com/iwvelando/repair-reserve/pkg/constants"
	"github.com/iwvelando/repair-reserve/pkg/output"
	"github.com/iwvelando/repair-reserve/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger      *zap.Logger
	services    *config.Services
	maxBodySize int64
	version     string
	now         func() time.Time
}

// NewHandler constructs the HTTP handler that serves the calculator API. A nil
// services value answers advice with fallback text and lookups with "not found".
func NewHandler(logger *zap.Logger, services *config.Services, maxBodySize int64, version string) http.Handler {
	return newHandler(logger, services, maxBodySize, version, time.Now)
}

func newHandler(logger *zap.Logger, services *config.Services, maxBodySize int64, version string, now func() time.Time) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if services == nil {
		services = &config.Services{
			Advisor: advisor.NewService(logger, nil),
			Lookup:  lookup.NewService(logger, nil),
		}
	}
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		services:    services,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
		now:         now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/defaults", h.handleDefaults)
	mux.HandleFunc("/api/calculate", h.handleCalculate)
	mux.HandleFunc("/api/edit", h.handleEdit)
	mux.HandleFunc("/api/advice", h.handleAdvice)
	mux.HandleFunc("/api/lookup", h.handleLookup)
	mux.HandleFunc("/api/export", h.handleExport)
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type calculationResponse struct {
	Inputs   reserve.Inputs        `json:"inputs"`
	Result   *reserve.Result       `json:"result"`
	Missing  reserve.Insufficiency `json:"missing,omitempty"`
	Warnings []string              `json:"warnings,omitempty"`
}

type calculateRequest struct {
	Inputs reserve.Inputs `json:"inputs"`
}

type editRequest struct {
	Inputs reserve.Inputs `json:"inputs"`
	Edit   session.Edit   `json:"edit"`
}

type adviceResponse struct {
	RequestID string `json:"requestId"`
	Advice    string `json:"advice"`
	Generated bool   `json:"generated"`
}

type lookupRequest struct {
	Name string `json:"name"`
}

type lookupResponse struct {
	RequestID string        `json:"requestId"`
	Lookup    lookup.Result `json:"lookup"`
}

type exportRequest struct {
	Inputs reserve.Inputs `json:"inputs"`
	Format string         `json:"format"`
}

func (h *handler) handleDefaults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, http.StatusOK, calculate(reserve.DefaultInputs(h.now().Year())))
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req calculateRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	h.writeJSON(w, http.StatusOK, calculate(reserve.Reconcile(req.Inputs.Normalize())))
}

func (h *handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEdit"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req editRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	next, err := session.Apply(reserve.Reconcile(req.Inputs.Normalize()), req.Edit)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid edit: %v", err), op)
		return
	}
	h.writeJSON(w, http.StatusOK, calculate(next))
}

func (h *handler) handleAdvice(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAdvice"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req calculateRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	in := reserve.Reconcile(req.Inputs.Normalize())
	var res *reserve.Result
	if computed, ok := reserve.Calculate(in); ok {
		res = &computed
	}

	start := time.Now()
	text, generated := h.services.Advisor.Advise(r.Context(), in, res)
	h.logger.Info("advice served",
		zap.String("op", op),
		zap.Bool("generated", generated),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, adviceResponse{
		RequestID: uuid.NewString(),
		Advice:    text,
		Generated: generated,
	})
}

func (h *handler) handleLookup(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleLookup"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req lookupRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	answer := h.services.Lookup.Lookup(r.Context(), req.Name)
	h.logger.Info("lookup served",
		zap.String("op", op),
		zap.Bool("found", answer.Found),
	)
	h.writeJSON(w, http.StatusOK, lookupResponse{
		RequestID: uuid.NewString(),
		Lookup:    answer,
	})
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req exportRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	in := reserve.Reconcile(req.Inputs.Normalize())
	report := output.NewReport(in, validation.ValidateInputs(in))

	var (
		buf         bytes.Buffer
		err         error
		contentType string
		filename    string
	)
	switch strings.ToLower(strings.TrimSpace(req.Format)) {
	case constants.OutputFormatCSV:
		contentType, filename = "text/csv; charset=utf-8", "repair-reserve.csv"
		err = output.CSV(&buf, report)
	case "", constants.OutputFormatJSON:
		contentType, filename = "application/json", "repair-reserve.json"
		err = output.JSON(&buf, report)
	case "yaml", "yml":
		contentType, filename = "application/yaml", "repair-reserve.yaml"
		err = yaml.NewEncoder(&buf).Encode(report)
	case constants.OutputFormatXLSX:
		contentType, filename = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "repair-reserve.xlsx"
		err = output.XLSX(&buf, report)
	case constants.OutputFormatPretty:
		contentType, filename = "text/plain; charset=utf-8", "repair-reserve.txt"
		err = output.Pretty(&buf, report)
	default:
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("unsupported export format %q", req.Format), op)
		return
	}
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to export: %v", err), op)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write export",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func calculate(in reserve.Inputs) calculationResponse {
	report := output.NewReport(in, validation.ValidateInputs(in))
	return calculationResponse{
		Inputs:   report.Inputs,
		Result:   report.Result,
		Missing:  report.Missing,
		Warnings: report.Warnings,
	}
}

// decode reads a JSON body into dst, writing the error response itself when
// it fails.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
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
