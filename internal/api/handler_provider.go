package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fastprodman/pointledger/internal/repos/balances"
	"github.com/fastprodman/pointledger/internal/repos/history"
	"github.com/fastprodman/pointledger/internal/services/points"
	"github.com/go-chi/chi/v5"
)

// PointService is the ledger surface the handlers adapt to HTTP.
type PointService interface {
	GetBalance(ctx context.Context, userID int64) (balances.UserBalance, error)
	GetHistory(ctx context.Context, userID int64) ([]history.Entry, error)
	Charge(ctx context.Context, userID, amount int64) (balances.UserBalance, error)
	Use(ctx context.Context, userID, amount int64) (balances.UserBalance, error)
}

// HandlerProvider wraps a PointService and exposes HTTP handlers.
type HandlerProvider struct {
	svc PointService
}

// NewHandler returns a new Handler provider.
func NewHandler(svc PointService) *HandlerProvider {
	return &HandlerProvider{svc: svc}
}

// --- DTOs ---

type userPointResponse struct {
	ID           int64 `json:"id"`
	Point        int64 `json:"point"`
	UpdateMillis int64 `json:"updateMillis"`
}

type pointHistoryResponse struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"userId"`
	Amount       int64  `json:"amount"`
	Type         string `json:"type"`
	UpdateMillis int64  `json:"updateMillis"`
}

type amountRequest struct {
	Amount *int64 `json:"amount"`
}

func toUserPoint(b balances.UserBalance) userPointResponse {
	var millis int64
	if !b.UpdatedAt.IsZero() {
		millis = b.UpdatedAt.UnixMilli()
	}

	return userPointResponse{ID: b.UserID, Point: b.Points, UpdateMillis: millis}
}

func toHistory(entries []history.Entry) []pointHistoryResponse {
	out := make([]pointHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, pointHistoryResponse{
			ID:           e.ID,
			UserID:       e.UserID,
			Amount:       e.Amount,
			Type:         string(e.Type),
			UpdateMillis: e.Timestamp.UnixMilli(),
		})
	}

	return out
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"code": code, "message": msg})
}

// parseUserIDFromPath reads `{id}` from routes like /point/{id}/charge.
func parseUserIDFromPath(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		return 0, fmt.Errorf("missing id")
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid id: must be positive")
	}

	return id, nil
}

func decodeAmount(w http.ResponseWriter, r *http.Request) (int64, error) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<10)
	defer r.Body.Close()

	var req amountRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(&req)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("empty body")
		}

		return 0, fmt.Errorf("invalid JSON")
	}
	if req.Amount == nil {
		return 0, fmt.Errorf("amount required")
	}

	return *req.Amount, nil
}

// writeServiceError maps ledger errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, points.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, points.ErrBalanceCeilingExceeded):
		writeError(w, http.StatusConflict, "balance_ceiling_exceeded", err.Error())
	case errors.Is(err, points.ErrInsufficientBalance):
		writeError(w, http.StatusConflict, "insufficient_balance", err.Error())
	case errors.Is(err, points.ErrLockAcquisition):
		writeError(w, http.StatusServiceUnavailable, "busy", "user is busy, retry later")
	default:
		slog.Error("point request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// --- Handlers ---

// GetPointHandler handles GET /point/{id}
func (h *HandlerProvider) GetPointHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	b, err := h.svc.GetBalance(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserPoint(b))
}

// GetHistoriesHandler handles GET /point/{id}/histories
func (h *HandlerProvider) GetHistoriesHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	entries, err := h.svc.GetHistory(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toHistory(entries))
}

// ChargeHandler handles PATCH /point/{id}/charge
func (h *HandlerProvider) ChargeHandler(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.svc.Charge)
}

// UseHandler handles PATCH /point/{id}/use
func (h *HandlerProvider) UseHandler(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.svc.Use)
}

func (h *HandlerProvider) mutate(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, userID, amount int64) (balances.UserBalance, error),
) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	amount, err := decodeAmount(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	b, err := op(r.Context(), userID, amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserPoint(b))
}
