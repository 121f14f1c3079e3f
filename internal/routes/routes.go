package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/haiminh-dev/projecthub/internal/handlers"
)

// Deps bundles everything route registration needs. Limiter handlers may be
// nil (e.g. in tests without redis); they are simply skipped.
type Deps struct {
	Auth     *handlers.AuthHandler
	Users    *handlers.UserHandler
	Projects *handlers.ProjectHandler

	Guard         fiber.Handler
	LoginLimiter  fiber.Handler
	ForgotLimiter fiber.Handler
}

func Setup(app *fiber.App, d Deps) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", d.Auth.Register)
	auth.Post("/login", chain(d.LoginLimiter, d.Auth.Login)...)
	auth.Post("/refresh-token", d.Auth.Refresh)
	auth.Post("/logout", d.Guard, d.Auth.Logout)
	auth.Post("/forgot-password", chain(d.ForgotLimiter, d.Auth.ForgotPassword)...)
	auth.Post("/reset-password/:token", d.Auth.ResetPassword)
	auth.Get("/profile", d.Guard, d.Auth.Profile)

	users := api.Group("/users", d.Guard)
	users.Post("/", d.Users.Create)
	users.Get("/", d.Users.List)
	users.Get("/:id", d.Users.Get)
	users.Put("/:id", d.Users.Update)
	users.Delete("/:id", d.Users.Delete)

	projects := api.Group("/projects", d.Guard)
	projects.Post("/", d.Projects.Create)
	projects.Get("/", d.Projects.List)
	projects.Get("/:id", d.Projects.Get)
	projects.Put("/:id", d.Projects.Update)
	projects.Delete("/:id", d.Projects.Delete)
}

func chain(hs ...fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(hs))
	for _, h := range hs {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}
