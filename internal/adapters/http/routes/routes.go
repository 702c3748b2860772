package routes

import (
	"samajhub/internal/adapters/http/handlers"
	"samajhub/internal/adapters/http/middleware"
	"samajhub/internal/adapters/persistence/repositories"
	"samajhub/internal/config"
	"samajhub/internal/core/services"
	"samajhub/internal/pkg/permissions"
	"samajhub/internal/pkg/ratelimit"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, limiter ratelimit.Limiter) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	systemUserRepo := repositories.NewSystemUserRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	familyRepo := repositories.NewFamilyRepository(db)

	// Initialize services
	permissionService := services.NewPermissionService(roleRepo)
	authService := services.NewAuthService(userRepo, permissionService, cfg)
	systemAuthService := services.NewSystemAuthService(systemUserRepo, permissionService, cfg)
	userService := services.NewUserService(userRepo, roleRepo)
	systemUserService := services.NewSystemUserService(systemUserRepo, roleRepo)
	roleService := services.NewRoleService(roleRepo, userRepo, systemUserRepo)
	familyService := services.NewFamilyService(familyRepo, userRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, userService)
	systemAuthHandler := handlers.NewSystemAuthHandler(systemAuthService)
	userHandler := handlers.NewUserHandler(userService)
	systemUserHandler := handlers.NewSystemUserHandler(systemUserService)
	roleHandler := handlers.NewRoleHandler(roleService)
	permissionHandler := handlers.NewPermissionHandler(roleService)
	familyHandler := handlers.NewFamilyHandler(familyService)

	// Auth middlewares
	communityAuth := middleware.CommunityAuth(cfg, userRepo, permissionService)
	systemAuth := middleware.SystemAuth(cfg, systemUserRepo, permissionService)
	unifiedAuth := middleware.UnifiedAuth(cfg, userRepo, systemUserRepo, permissionService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Community auth routes
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/register", middleware.RateLimit(limiter, "register"), authHandler.Register)
	authRoutes.Post("/login", middleware.RateLimit(limiter, "login"), authHandler.Login)
	authRoutes.Get("/me", communityAuth, authHandler.Me)
	authRoutes.Put("/me", communityAuth, authHandler.UpdateMe)
	authRoutes.Get("/validate", communityAuth, authHandler.Validate)
	authRoutes.Post("/logout", communityAuth, authHandler.Logout)
	authRoutes.Put("/change-password", communityAuth, authHandler.ChangePassword)

	// System auth routes
	systemAuthRoutes := apiV1.Group("/system/auth")
	systemAuthRoutes.Post("/login", middleware.RateLimit(limiter, "system-login"), systemAuthHandler.SystemLogin)
	systemAuthRoutes.Post("/register", systemAuth,
		middleware.RequirePermissions(permissions.UsersCreate), systemAuthHandler.SystemRegister)
	systemAuthRoutes.Get("/me", systemAuth, systemAuthHandler.SystemMe)
	systemAuthRoutes.Get("/validate", systemAuth, systemAuthHandler.SystemValidate)
	systemAuthRoutes.Post("/logout", systemAuth, systemAuthHandler.SystemLogout)
	systemAuthRoutes.Put("/change-password", systemAuth, systemAuthHandler.SystemChangePassword)

	// Community member management (either identity class, permission gated)
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(unifiedAuth)
	userRoutes.Get("/search", middleware.RequirePermissions(permissions.MembersRead), userHandler.Search)
	userRoutes.Get("/suggestions", middleware.RequirePermissions(permissions.MembersRead), userHandler.Suggestions)
	userRoutes.Get("/", middleware.RequirePermissions(permissions.MembersRead), userHandler.List)
	userRoutes.Get("/:id", middleware.RequirePermissions(permissions.MembersRead), userHandler.Get)
	userRoutes.Put("/:id", middleware.RequirePermissions(permissions.MembersUpdate), userHandler.Update)
	userRoutes.Delete("/:id", middleware.RequirePermissions(permissions.MembersDelete), userHandler.Delete)
	userRoutes.Patch("/:id/verify", middleware.RequirePermissions(permissions.MembersUpdate), userHandler.SetVerified)
	userRoutes.Patch("/:id/role", middleware.RequirePermissions(permissions.MembersUpdate, permissions.RolesUpdate), userHandler.SetRole)

	// System user management (system staff)
	systemUserRoutes := apiV1.Group("/system/users")
	systemUserRoutes.Use(systemAuth)
	systemUserRoutes.Get("/stats", middleware.RequirePermissions(permissions.UsersRead), systemUserHandler.Stats)
	systemUserRoutes.Get("/", middleware.RequirePermissions(permissions.UsersRead), systemUserHandler.List)
	systemUserRoutes.Get("/:id", middleware.RequirePermissions(permissions.UsersRead), systemUserHandler.Get)
	systemUserRoutes.Put("/:id", middleware.RequirePermissions(permissions.UsersUpdate), systemUserHandler.Update)
	systemUserRoutes.Delete("/:id", middleware.RequirePermissions(permissions.UsersDelete), systemUserHandler.Delete)
	systemUserRoutes.Patch("/:id/status", middleware.RequirePermissions(permissions.UsersUpdate), systemUserHandler.SetActive)
	systemUserRoutes.Patch("/:id/unlock", middleware.RequirePermissions(permissions.UsersUpdate), systemUserHandler.Unlock)
	systemUserRoutes.Patch("/:id/reset-password", middleware.RequireAccessLevel(4), systemUserHandler.ResetPassword)

	// Role management (either identity class, permission gated)
	roleRoutes := apiV1.Group("/roles")
	roleRoutes.Use(unifiedAuth)
	roleRoutes.Get("/stats", middleware.RequirePermissions(permissions.RolesRead), roleHandler.Stats)
	roleRoutes.Get("/", middleware.RequirePermissions(permissions.RolesRead), roleHandler.List)
	roleRoutes.Get("/:id", middleware.RequirePermissions(permissions.RolesRead), roleHandler.Get)
	roleRoutes.Post("/", middleware.RequirePermissions(permissions.RolesCreate), roleHandler.Create)
	roleRoutes.Put("/:id", middleware.RequirePermissions(permissions.RolesUpdate), roleHandler.Update)
	roleRoutes.Get("/:id/permissions", middleware.RequirePermissions(permissions.RolesRead), roleHandler.GetPermissions)
	roleRoutes.Put("/:id/permissions", middleware.RequirePermissions(permissions.RolesUpdate), roleHandler.ReplacePermissions)
	roleRoutes.Patch("/:id/status", middleware.RequirePermissions(permissions.RolesUpdate), roleHandler.ToggleStatus)
	roleRoutes.Post("/:id/duplicate", middleware.RequirePermissions(permissions.RolesCreate), roleHandler.Duplicate)
	roleRoutes.Delete("/:id", middleware.RequirePermissions(permissions.RolesDelete), roleHandler.Delete)

	// Permission vocabulary; own-set endpoints need no extra guard
	permissionRoutes := apiV1.Group("/permissions")
	permissionRoutes.Use(unifiedAuth)
	permissionRoutes.Get("/me", permissionHandler.Mine)
	permissionRoutes.Get("/check/:permission", permissionHandler.Check)
	permissionRoutes.Get("/", middleware.RequirePermissions(permissions.RolesRead), middleware.PermissionCatalogueCache(), permissionHandler.Catalogue)
	permissionRoutes.Get("/defaults", middleware.RequirePermissions(permissions.RolesRead), permissionHandler.Defaults)
	permissionRoutes.Post("/validate", middleware.RequirePermissions(permissions.RolesRead), permissionHandler.Validate)

	// Family genealogy (either identity class, permission gated)
	familyRoutes := apiV1.Group("/families")
	familyRoutes.Use(unifiedAuth)
	familyRoutes.Get("/", middleware.RequirePermissions(permissions.CommunityRead), familyHandler.List)
	familyRoutes.Get("/head/:id", middleware.RequirePermissions(permissions.CommunityRead), familyHandler.GetByHead)
	familyRoutes.Get("/:id", middleware.RequirePermissions(permissions.CommunityRead), familyHandler.Get)
	familyRoutes.Post("/", middleware.RequirePermissions(permissions.CommunityCreate), familyHandler.Create)
	familyRoutes.Put("/:id", middleware.RequirePermissions(permissions.CommunityUpdate), familyHandler.Update)
	familyRoutes.Delete("/:id", middleware.RequirePermissions(permissions.CommunityDelete), familyHandler.Delete)
	familyRoutes.Post("/:id/events", middleware.RequirePermissions(permissions.CommunityUpdate), familyHandler.AddEvent)
}
