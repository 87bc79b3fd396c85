// Package httpapi exposes the vault over HTTP: registration, login and the
// file upload/list endpoints, plus health probes. Routing is chi; errors are
// returned as a JSON envelope.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/drivault/internal/logging"
	"github.com/dmitrijs2005/drivault/internal/server/files"
	"github.com/dmitrijs2005/drivault/internal/server/users"
)

// Handler bundles the services behind the HTTP endpoints.
type Handler struct {
	users     *users.Service
	files     *files.Service
	logger    logging.Logger
	jwtSecret []byte
}

func NewHandler(us *users.Service, fs *files.Service, logger logging.Logger, secretKey string) *Handler {
	return &Handler{
		users:     us,
		files:     fs,
		logger:    logger.With("module", "httpapi"),
		jwtSecret: []byte(secretKey),
	}
}

// errorResponse is the JSON envelope for all error replies.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Path    string `json:"path"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error(context.Background(), "error encoding response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Success: false, Error: msg, Path: r.URL.Path})
}
