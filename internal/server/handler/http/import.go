package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/otpmigrate/internal/models"
	"github.com/atinyakov/otpmigrate/internal/service"
)

// maxBodyBytes bounds an import request. QR payloads are a few kilobytes.
const maxBodyBytes = 1 << 20

// Importer is the decoding operation required by ImportHandler.
type Importer interface {
	// Import decodes texts in order and reports per-item outcomes.
	Import(ctx context.Context, texts []string) (*service.Report, error)
}

// ImportHandler handles import requests.
type ImportHandler struct {
	Importer Importer
}

// ImportRequest is the body of POST /api/import.
type ImportRequest struct {
	// Payloads are decoded QR texts in scan order.
	Payloads []string `json:"payloads"`
}

// Failure describes one item or entry that produced no account.
type Failure struct {
	Index int         `json:"index"`
	Kind  models.Kind `json:"kind"`
	Error string      `json:"error"`
}

// ImportResponse is the body returned by POST /api/import.
type ImportResponse struct {
	ID       string           `json:"id"`
	Accounts []models.Account `json:"accounts"`
	Failures []Failure        `json:"failures"`
}

// Import handles POST /api/import. It answers 200 with the decoded
// accounts, 422 when none could be decoded, and 400 for a bad body.
// Nothing is stored.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	rep, err := h.Importer.Import(r.Context(), req.Payloads)
	status := http.StatusOK
	switch {
	case errors.Is(err, models.ErrNoAccountsFound):
		status = http.StatusUnprocessableEntity
	case err != nil:
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(newImportResponse(rep))
}

func newImportResponse(rep *service.Report) ImportResponse {
	resp := ImportResponse{
		ID:       rep.ID,
		Accounts: rep.Document().Accounts,
		Failures: []Failure{},
	}
	for _, o := range rep.Failed() {
		if o.Err != nil {
			resp.Failures = append(resp.Failures, Failure{Index: o.Index, Kind: o.Kind, Error: o.Err.Error()})
		}
		for _, d := range o.Dropped {
			resp.Failures = append(resp.Failures, Failure{Index: o.Index, Kind: o.Kind, Error: d.Error()})
		}
	}
	return resp
}

// Health handles GET /api/health.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
