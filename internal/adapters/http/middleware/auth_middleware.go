package middleware

import (
	"strings"

	"samajhub/internal/adapters/persistence/repositories"
	"samajhub/internal/config"
	"samajhub/internal/core/services"
	"samajhub/internal/pkg/jwt"
	"samajhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Principal is the authenticated identity attached to the request context.
// Role and Permissions are re-resolved from the database on every request,
// so a role edit takes effect without waiting for token expiry.
type Principal struct {
	UserID      uint
	Username    string
	Email       string
	Role        string
	Permissions []string
	UserType    string
	EmployeeID  string
	Department  string
	AccessLevel int
}

// HasPermission reports whether the principal holds permission p
func (p *Principal) HasPermission(perm string) bool {
	for _, v := range p.Permissions {
		if v == perm {
			return true
		}
	}
	return false
}

const principalKey = "principal"

// GetPrincipal returns the authenticated principal, or nil when the route
// was reached without an auth middleware.
func GetPrincipal(c *fiber.Ctx) *Principal {
	p, _ := c.Locals(principalKey).(*Principal)
	return p
}

// extractToken pulls the bearer token from the Authorization header
func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// attachPrincipal stores the principal and the convenience locals
func attachPrincipal(c *fiber.Ctx, principal *Principal) error {
	c.Locals(principalKey, principal)
	c.Locals("userID", principal.UserID)
	c.Locals("username", principal.Username)
	c.Locals("role", principal.Role)
	return c.Next()
}

// authenticateCommunity re-fetches the community user behind validated
// claims so deactivation takes effect immediately
func authenticateCommunity(c *fiber.Ctx, claims *jwt.Claims, userRepo repositories.UserRepository, perms *services.PermissionService) error {
	user, err := userRepo.GetByID(c.Context(), claims.UserID)
	if err != nil {
		return response.Unauthorized(c, "Account no longer exists")
	}
	if !user.Verified {
		return response.Forbidden(c, "Account is not verified")
	}
	if !user.IsActive {
		return response.Forbidden(c, "Account is deactivated")
	}

	return attachPrincipal(c, &Principal{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		Permissions: perms.Resolve(c.Context(), user.RoleID, user.Role),
		UserType:    jwt.UserTypeCommunity,
	})
}

// authenticateSystem re-fetches the system user and re-checks account
// state in the same order as login: locked, unverified, inactive,
// password expired
func authenticateSystem(c *fiber.Ctx, claims *jwt.Claims, systemUserRepo repositories.SystemUserRepository, perms *services.PermissionService) error {
	user, err := systemUserRepo.GetByID(c.Context(), claims.UserID)
	if err != nil {
		return response.Unauthorized(c, "Account no longer exists")
	}

	switch {
	case user.IsLocked():
		return response.Locked(c, "Account is temporarily locked due to multiple failed login attempts")
	case !user.Verified:
		return response.Forbidden(c, "Account is not verified")
	case !user.IsActive:
		return response.Forbidden(c, "Account is deactivated")
	case user.IsPasswordExpired():
		return response.Forbidden(c, "Password has expired, please reset your password")
	}

	return attachPrincipal(c, &Principal{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		Permissions: perms.Resolve(c.Context(), user.RoleID, user.Role),
		UserType:    jwt.UserTypeSystem,
		EmployeeID:  user.EmployeeID,
		Department:  user.Department,
		AccessLevel: user.AccessLevel,
	})
}

// CommunityAuth authenticates community member tokens
func CommunityAuth(cfg *config.Config, userRepo repositories.UserRepository, perms *services.PermissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.Validate(token, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired, please login again")
			}
			return response.Unauthorized(c, "Invalid access token")
		}
		if claims.UserType != jwt.UserTypeCommunity {
			return response.Unauthorized(c, "Invalid access token")
		}

		return authenticateCommunity(c, claims, userRepo, perms)
	}
}

// SystemAuth authenticates system staff tokens
func SystemAuth(cfg *config.Config, systemUserRepo repositories.SystemUserRepository, perms *services.PermissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.Validate(token, cfg.JWT.SystemSecret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired, please login again")
			}
			return response.Unauthorized(c, "Invalid access token")
		}
		if claims.UserType != jwt.UserTypeSystem {
			return response.Unauthorized(c, "Invalid access token")
		}

		return authenticateSystem(c, claims, systemUserRepo, perms)
	}
}

// UnifiedAuth accepts either identity class on one route. The community
// secret is tried first; a token that fails its signature check falls
// through to the system secret. A token signed with one secret is never
// valid under the other.
func UnifiedAuth(cfg *config.Config, userRepo repositories.UserRepository, systemUserRepo repositories.SystemUserRepository, perms *services.PermissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.Validate(token, cfg.JWT.Secret)
		if err == nil {
			if claims.UserType != jwt.UserTypeCommunity {
				return response.Unauthorized(c, "Invalid access token")
			}
			return authenticateCommunity(c, claims, userRepo, perms)
		}
		if err == jwt.ErrTokenExpired {
			// Expired under the community secret means the signature checked
			// out, so this was a community token
			return response.Unauthorized(c, "Access token expired, please login again")
		}

		claims, err = jwt.Validate(token, cfg.JWT.SystemSecret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired, please login again")
			}
			return response.Unauthorized(c, "Invalid access token")
		}
		if claims.UserType != jwt.UserTypeSystem {
			return response.Unauthorized(c, "Invalid access token")
		}

		return authenticateSystem(c, claims, systemUserRepo, perms)
	}
}

// RequireRoles allows only principals whose role is in allowedRoles
func RequireRoles(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, role := range allowedRoles {
			if strings.EqualFold(p.Role, role) {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// RequirePermissions allows principals holding at least one of perms
func RequirePermissions(perms ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, perm := range perms {
			if p.HasPermission(perm) {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// RequireAccessLevel allows system principals at or above min.
// Community principals have no access level and are always rejected.
func RequireAccessLevel(min int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return response.Unauthorized(c, "Unauthorized")
		}

		if p.UserType != jwt.UserTypeSystem || p.AccessLevel < min {
			return response.Forbidden(c, "Insufficient access level for this resource")
		}

		return c.Next()
	}
}
