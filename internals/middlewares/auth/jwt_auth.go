package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	helper "campusku_backend/internals/helpers"
)

// Locals keys hydrated from the token
const (
	LocUserID   = "user_id"
	LocUserRole = "userRole"
	LocClaims   = "jwt_claims"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // use the access_token cookie when there is no Bearer header
	// Subject, when set, must equal the "sub" claim.
	Subject string
}

func strClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// AuthJWT verifies an HMAC-signed token (exp is enforced by the parser) and stores
// user id, role and raw claims in Locals.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: secret is required")
	}

	return func(c *fiber.Ctx) error {
		raw := helper.GetRawAccessToken(c, o.AllowCookieFallback)
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}
		if o.Subject != "" && strClaim(claims, "sub") != o.Subject {
			return fiber.NewError(fiber.StatusForbidden, "token subject not allowed here")
		}

		c.Locals(LocClaims, claims)
		c.Locals(helper.LocRawToken, raw)

		switch {
		case strClaim(claims, "id") != "":
			c.Locals(LocUserID, strClaim(claims, "id"))
		case strClaim(claims, "user_id") != "":
			c.Locals(LocUserID, strClaim(claims, "user_id"))
		case strClaim(claims, "sub") != "":
			c.Locals(LocUserID, strClaim(claims, "sub"))
		}
		if role := strings.ToLower(strClaim(claims, "role")); role != "" {
			c.Locals(LocUserRole, role)
		}

		return c.Next()
	}
}
