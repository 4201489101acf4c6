package handlers

import (
	"net/http"

	"vidvault/internal/auth"
	"vidvault/internal/store"

	"github.com/labstack/echo/v4"
)

func userPayload(u store.User) map[string]any {
	return map[string]any{
		"id":       u.ID,
		"email":    u.Email,
		"username": u.Username,
		"role":     u.Role,
	}
}

func (h *Handler) Login(c echo.Context) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	token, user, err := h.svc.Login(c.Request().Context(), body.Username, body.Password)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
		"user":    userPayload(user),
	})
}

func (h *Handler) Register(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	token, user, err := h.svc.Register(c.Request().Context(), body.Email, body.Username, body.Password)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"token":   token,
		"user":    userPayload(user),
	})
}

// VerifyToken echoes the account behind the bearer token. The auth
// middleware has already rejected missing or invalid tokens.
func (h *Handler) VerifyToken(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}

	user, err := h.svc.UserForClaims(c.Request().Context(), claims)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"user":    userPayload(user),
	})
}
