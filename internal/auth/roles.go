package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/staff-auth/pkg/util"
)

// RequireDepartment ensures the principal belongs to one of the allowed departments.
// With no departments given, any authenticated staff member passes.
func RequireDepartment(allowed ...string) fiber.Handler {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, dept := range allowed {
		allowedSet[strings.ToLower(dept)] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[strings.ToLower(principal.Staff.Department)]; !exists {
			return apperrors.NewForbidden("department not permitted")
		}
		return c.Next()
	}
}
