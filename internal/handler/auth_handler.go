package handler

import (
	"time"

	"go-pos-backend/internal/service"
	"go-pos-backend/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	auth       service.AuthService
	tokens     *token.Manager
	cookieName string
	log        zerolog.Logger
}

func NewAuthHandler(auth service.AuthService, tokens *token.Manager, cookieName string, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:       auth,
		tokens:     tokens,
		cookieName: cookieName,
		log:        log,
	}
}

// CredentialsRequest is the body for both register and login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username and password are required"})
	}

	user, tok, err := h.auth.Register(req.Username, req.Password)
	if err != nil {
		return respondError(c, h.log, err)
	}

	h.setSessionCookie(c, tok)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  user.ToResponse(),
		"token": tok,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username and password are required"})
	}

	user, tok, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		return respondError(c, h.log, err)
	}

	h.setSessionCookie(c, tok)
	return c.JSON(fiber.Map{
		"user":  user.ToResponse(),
		"token": tok,
	})
}

// Logout handles POST /api/auth/logout. Always succeeds.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.JSON(fiber.Map{"success": true})
}

// Check handles GET /api/auth/check, verifying the session cookie.
func (h *AuthHandler) Check(c *fiber.Ctx) error {
	tok := c.Cookies(h.cookieName)
	if tok == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	claims, err := h.tokens.Verify(tok)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired session"})
	}

	return c.JSON(fiber.Map{
		"id":       claims.UserID,
		"username": claims.Username,
	})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, tok string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    tok,
		Path:     "/",
		Expires:  time.Now().Add(h.tokens.TTL()),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}
