package handler

import (
	"encoding/json"
	"net/http"

	"github.com/iho/gosales/internal/adapter/http/dto"
	"github.com/iho/gosales/internal/adapter/http/middleware"
	"github.com/iho/gosales/internal/domain"
	"github.com/iho/gosales/internal/infrastructure/auth"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	jwtManager *auth.JWTManager
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		jwtManager: jwtManager,
	}
}

// TokenRequest asks for a token on behalf of another operator.
type TokenRequest struct {
	OperatorID string      `json:"operator_id"`
	Name       string      `json:"name"`
	Role       domain.Role `json:"role"`
}

// TokenResponse carries a signed token.
type TokenResponse struct {
	Token    string               `json:"token"`
	Operator dto.OperatorResponse `json:"operator"`
}

// IssueToken mints a token for another operator. Only admins reach it.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.OperatorID == "" || !req.Role.IsValid() {
		writeError(w, http.StatusBadRequest, "operator_id and a valid role are required", "")
		return
	}

	op := &domain.Operator{ID: req.OperatorID, Name: req.Name, Role: req.Role}
	token, err := h.jwtManager.Generate(op)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, TokenResponse{
		Token:    token,
		Operator: dto.OperatorResponse{ID: op.ID, Name: op.Name, Role: op.Role},
	})
}

// Me returns the current authenticated operator
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	op, ok := middleware.OperatorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	writeJSON(w, http.StatusOK, dto.OperatorResponse{ID: op.ID, Name: op.Name, Role: op.Role})
}
