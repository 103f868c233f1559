package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"menucart/internal/cart"
	"menucart/internal/catalog"
	applog "menucart/internal/log"
)

var (
	sessionManager *scs.SessionManager
	database       *gorm.DB
	menu           *catalog.Store
	cartLimits     = cart.DefaultLimits
)

// Configure installs the shared dependencies used by the HTTP handlers.
func Configure(sm *scs.SessionManager, db *gorm.DB) {
	sessionManager = sm
	database = db
	menu = nil
	if db != nil {
		menu = catalog.New(db)
	}
}

// SetCartLimits bounds quantities and notes of every cart line.
func SetCartLimits(limits cart.Limits) {
	cartLimits = limits
}

func ready(w http.ResponseWriter, r *http.Request) bool {
	if sessionManager == nil || menu == nil {
		applog.Debug(r.Context(), "handler dependencies unavailable", "hasSession", sessionManager != nil, "hasDatabase", menu != nil)
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"status": "error", "message": message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	return decoder.Decode(dst)
}

// errorStatus maps cart and catalog errors onto HTTP status codes.
func errorStatus(err error) int {
	var validation *cart.ValidationError
	var unavailable *cart.AvailabilityError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &unavailable):
		return http.StatusConflict
	case errors.Is(err, cart.ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// pathID extracts the numeric id that follows prefix, returning the remaining segments.
func pathID(path, prefix string) (uint, []string, bool) {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" {
		return 0, nil, false
	}
	segments := strings.Split(rest, "/")
	value, err := strconv.ParseUint(segments[0], 10, 64)
	if err != nil || value == 0 {
		return 0, nil, false
	}
	return uint(value), segments[1:], true
}

// pathSlug returns the single path segment that follows prefix.
func pathSlug(path, prefix string) string {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if strings.Contains(rest, "/") {
		return ""
	}
	return rest
}
