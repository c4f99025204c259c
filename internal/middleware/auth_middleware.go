package middleware

import (
	"strings"

	"go-pos-backend/pkg/token"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth gates every protected route on a valid session cookie. API
// clients get a 401 JSON body; browser navigation is redirected to /login.
func RequireAuth(tokens *token.Manager, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := c.Cookies(cookieName)
		if tok == "" {
			return reject(c, "Missing session token")
		}

		claims, err := tokens.Verify(tok)
		if err != nil {
			return reject(c, "Invalid or expired session")
		}

		// Set user info in context for downstream handlers
		c.Locals("user_id", claims.UserID)
		c.Locals("username", claims.Username)

		return c.Next()
	}
}

func reject(c *fiber.Ctx, msg string) error {
	if strings.Contains(c.Get(fiber.HeaderAccept), "text/html") {
		return c.Redirect("/login", fiber.StatusFound)
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}
