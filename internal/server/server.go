package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/haiminh-dev/projecthub/internal/config"
	"github.com/haiminh-dev/projecthub/internal/routes"
)

// New builds the Fiber application with global middlewares and all routes.
func New(cfg *config.Config, deps routes.Deps, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.App.ReadTimeout(),
		WriteTimeout: cfg.App.WriteTimeout(),
		IdleTimeout:  cfg.App.IdleTimeout(),
	})

	app.Use(cors.New())
	app.Use(requestid.New())
	app.Use(requestLogger(logger))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	routes.Setup(app, deps)
	return app
}

// requestLogger logs each request with zap. Tokens and bodies are never
// logged.
func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		}
		if err != nil {
			logger.Error("http request", append(fields, zap.Error(err))...)
			return err
		}
		logger.Info("http request", fields...)
		return nil
	}
}
