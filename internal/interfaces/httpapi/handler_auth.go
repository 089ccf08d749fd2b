package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/ktp-league/internal/usecase"
)

// Login accepts the OAuth2 password form used by the web client.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Login")
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid form payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	req := loginRequest{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	h.issueToken(w, r, req)
}

func (h *Handler) LoginJSON(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LoginJSON")
	defer span.End()

	var req loginRequest
	if err := h.decodeAndValidate(w, r.WithContext(ctx), &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	h.issueToken(w, r.WithContext(ctx), req)
}

func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request, req loginRequest) {
	ctx := r.Context()
	token, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tokenDTO{AccessToken: token.Token, TokenType: token.TokenType})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Me")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, errMissingPrincipal)
		return
	}

	u, err := h.authService.Me(ctx, principal)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userToDTO(u))
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateUser")
	defer span.End()

	var req createUserRequest
	if err := h.decodeAndValidate(w, r.WithContext(ctx), &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.authService.CreateUser(ctx, usecase.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create user failed", "username", req.Username, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userToDTO(created))
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUsers")
	defer span.End()

	users, err := h.authService.ListUsers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list users failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]userDTO, 0, len(users))
	for _, u := range users {
		items = append(items, userToDTO(u))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteUser")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, errMissingPrincipal)
		return
	}
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.authService.DeleteUser(ctx, principal, userID); err != nil {
		h.logger.WarnContext(ctx, "delete user failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeMessage(ctx, w, "User deleted successfully")
}

var errMissingPrincipal = fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized)
