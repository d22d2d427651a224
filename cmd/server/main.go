package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zhengdechang/auth-service/internal/auth"
	"github.com/zhengdechang/auth-service/internal/config"
	"github.com/zhengdechang/auth-service/internal/database"
	"github.com/zhengdechang/auth-service/internal/handler"
	"github.com/zhengdechang/auth-service/internal/middleware"
	"github.com/zhengdechang/auth-service/internal/queue"
	"github.com/zhengdechang/auth-service/internal/repository"
	"github.com/zhengdechang/auth-service/internal/router"
	"github.com/zhengdechang/auth-service/internal/token"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	cfg := config.Load()
	if cfg.Env == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	codec, err := token.NewCodec(cfg.JWTSecret, cfg.JWTAlgorithm)
	if err != nil {
		log.Fatal().Err(err).Msg("credential codec setup failed")
	}

	users := repository.NewUserRepo(db, cfg.BcryptCost)
	roles := repository.NewRoleRepo(db)
	sessions := repository.NewSessionRepo(db)

	svc := auth.NewService(users, sessions, codec, auth.Config{
		AccessTTL:  time.Duration(cfg.AccessTTLSec) * time.Second,
		RefreshTTL: time.Duration(cfg.RefreshTTLSec) * time.Second,
		Leeway:     time.Duration(cfg.LeewaySec) * time.Second,
	})

	var audit *queue.Publisher
	if cfg.RabbitURL != "" {
		audit = queue.NewPublisher(cfg.RabbitURL)
	}

	limiter := middleware.NewLoginLimiter(config.LoadRateLimitConfig(), config.NewRedisClient())
	gate := middleware.SessionGate(svc, router.SkipGate)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, handler.NewAuthHandler(svc, audit), handler.NewUserHandler(users, roles), gate, limiter)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
