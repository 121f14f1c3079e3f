package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/haiminh-dev/projecthub/internal/config"
	"github.com/haiminh-dev/projecthub/internal/database"
	"github.com/haiminh-dev/projecthub/internal/handlers"
	"github.com/haiminh-dev/projecthub/internal/logger"
	"github.com/haiminh-dev/projecthub/internal/mailer"
	"github.com/haiminh-dev/projecthub/internal/middleware"
	"github.com/haiminh-dev/projecthub/internal/repository"
	"github.com/haiminh-dev/projecthub/internal/routes"
	"github.com/haiminh-dev/projecthub/internal/server"
	"github.com/haiminh-dev/projecthub/internal/services"
	"github.com/haiminh-dev/projecthub/internal/token"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	sugar := zlog.Sugar()
	sugar.Infof("starting projecthub api in %s mode on port %d", cfg.App.Env, cfg.App.Port)

	db, mongoClient, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, sugar)
	if err != nil {
		sugar.Fatal(err)
	}
	rdb, err := database.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, sugar)
	if err != nil {
		sugar.Fatal(err)
	}

	userRepo := repository.NewMongoUserRepo(db, cfg.Mongo.UserCollection)
	projectRepo := repository.NewMongoProjectRepo(db, cfg.Mongo.ProjectCollection)

	issuer := token.NewIssuer(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.AccessTTL(), cfg.RefreshTTL())
	mail := mailer.NewClient(cfg.Mail.APIKey, cfg.Mail.FromEmail, cfg.Mail.FromName)

	authSvc := services.NewAuthService(userRepo, issuer, mail, cfg.App.BaseURL,
		cfg.Security.PasswordHashCost, cfg.ResetTokenTTL(), zlog)
	userSvc := services.NewUserService(userRepo, cfg.Security.PasswordHashCost)
	projectSvc := services.NewProjectService(projectRepo, userRepo)

	loginLimiter := middleware.NewRateLimiter(rdb, "rl:login",
		cfg.Security.LoginRateLimit, time.Duration(cfg.Security.LoginRateWindowMin)*time.Minute)
	forgotLimiter := middleware.NewRateLimiter(rdb, "rl:forgot",
		cfg.Security.ForgotRateLimit, time.Duration(cfg.Security.ForgotRateWindowMin)*time.Minute)

	app := server.New(cfg, routes.Deps{
		Auth:          handlers.NewAuthHandler(authSvc, cfg.RefreshTTL(), zlog),
		Users:         handlers.NewUserHandler(userSvc, zlog),
		Projects:      handlers.NewProjectHandler(projectSvc, zlog),
		Guard:         middleware.Protect(issuer, userRepo),
		LoginLimiter:  loginLimiter.ByIP(),
		ForgotLimiter: forgotLimiter.ByKey(forgotKey),
	}, zlog)

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.App.Port)); err != nil {
			sugar.Fatalf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sugar.Info("shutting down")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		sugar.Errorf("server shutdown: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := mongoClient.Disconnect(ctx); err != nil {
		sugar.Errorf("mongo disconnect: %v", err)
	}
	if err := rdb.Close(); err != nil {
		sugar.Errorf("redis close: %v", err)
	}
}

// forgotKey throttles reset requests per email per source IP.
func forgotKey(c *fiber.Ctx) string {
	var body struct {
		Email string `json:"email"`
	}
	_ = c.BodyParser(&body)
	return body.Email + ":" + c.IP()
}
