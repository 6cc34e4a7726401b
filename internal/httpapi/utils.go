package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	sharederrors "github.com/hiddenuae/gems-service/shared/errors"
	"github.com/hiddenuae/gems-service/shared/logging"
)

const (
	codeBadRequest       = "bad_request"
	codeNotFound         = "not_found"
	codeValidationFailed = "validation_failed"
	codePayloadTooLarge  = "payload_too_large"
	codeInternal         = "internal"
)

var errPayloadTooLarge = errors.New("payload too large")

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, r *http.Request, code, message string) {
	writeJSON(w, sharederrors.ToStatusCode(code), sharederrors.ErrorResponse{
		Code:      code,
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func writeValidationError(w http.ResponseWriter, r *http.Request, message string, fields map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, sharederrors.ErrorResponse{
		Code:      codeValidationFailed,
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
		Fields:    fields,
	})
}

// decodeJSON reads a single JSON object from the body, rejecting unknown fields and
// bodies above limit.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errPayloadTooLarge
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is empty")
		}
		return fmt.Errorf("invalid JSON payload")
	}
	return nil
}

func respondDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errPayloadTooLarge) {
		writeError(w, r, codePayloadTooLarge, "request body too large")
		return
	}
	writeError(w, r, codeBadRequest, err.Error())
}

func logRequestError(ctx context.Context, logger *slog.Logger, message string, err error) {
	if logger == nil || err == nil {
		return
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logging.WithRequestID(ctx, logger, reqID)
	}
	logger.Error(message, slog.Any("error", err))
}

func parsePositiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
