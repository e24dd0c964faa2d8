package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/storefront-api/internal/model"
	"github.com/iliyamo/storefront-api/internal/utils"
)

// SubjectResolver resolves a token subject to a live user record. The
// user repository satisfies it.
type SubjectResolver interface {
	GetByID(ctx context.Context, id string) (model.User, error)
}

// JWTAuth returns middleware that validates a Bearer access token and
// resolves its subject against the user store. On success it stores the
// subject id under "user_id", the role under "role" and the full record
// under "subject" for downstream handlers and RequireRole.
//
// Every failure class (missing header, malformed token, bad signature,
// expiry, wrong kind, deleted subject) answers 401 with the same body so
// the response is not an oracle for which check failed.
func JWTAuth(secret string, users SubjectResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			sub, err := utils.ParseToken(secret, raw, utils.KindAccess)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			// The claim may outlive its user; a token whose subject no
			// longer resolves is as invalid as a forged one.
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			u, err := users.GetByID(ctx, sub)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set("user_id", u.ID.Hex())
			c.Set("role", u.Role)
			c.Set("subject", u)
			return next(c)
		}
	}
}
