// Package middleware provides authentication, rate limiting, and request
// context middleware for the application.
package middleware

import (
	"strconv"
	"strings"

	"campus/internal/config"
	"campus/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// AuthorFromCtx returns the authenticated identity stored by the auth
// middleware, or the zero Author for anonymous requests.
func AuthorFromCtx(c *fiber.Ctx) models.Author {
	if a, ok := c.Locals("author").(models.Author); ok {
		return a
	}
	return models.Author{}
}

// RequireIdentity enforces a valid bearer token and stores the resulting
// identity in the request context.
func RequireIdentity(c *fiber.Ctx) error {
	author, err := identityFromRequest(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	c.Locals("author", author)
	c.Locals("userID", author.UserID)
	return c.Next()
}

// OptionalIdentity resolves the bearer token when present but lets anonymous
// requests through. An invalid token is still rejected rather than silently
// downgraded to anonymous.
func OptionalIdentity(c *fiber.Ctx) error {
	if c.Get("Authorization") == "" {
		return c.Next()
	}
	author, err := identityFromRequest(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	c.Locals("author", author)
	c.Locals("userID", author.UserID)
	return c.Next()
}

// RequireReviewer restricts a route to institution accounts. Must run after
// RequireIdentity.
func RequireReviewer(c *fiber.Ctx) error {
	if AuthorFromCtx(c).Role != models.RoleInstitution {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Reviewer access required",
		})
	}
	return c.Next()
}

func identityFromRequest(c *fiber.Ctx) (models.Author, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return models.Author{}, fiber.NewError(fiber.StatusUnauthorized, "Authorization header required")
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return models.Author{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization header format")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return models.Author{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Author{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	// User ID comes from the "sub" claim (subject claim per RFC 7519).
	subStr, ok := claims["sub"].(string)
	if !ok {
		return models.Author{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid token structure - missing subject")
	}
	userID, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return models.Author{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}

	roleStr, _ := claims["role"].(string)
	role, err := models.ParseRole(roleStr)
	if err != nil {
		return models.Author{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid role in token")
	}

	instClaim, ok := claims["institution_id"].(float64)
	if !ok || instClaim < 1 {
		return models.Author{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid institution in token")
	}

	return models.Author{
		Role:          role,
		UserID:        uint(userID),
		InstitutionID: uint(instClaim),
	}, nil
}
