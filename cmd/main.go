package main

import (
	"log/slog"
	"os"

	httpapi "github.com/Fahim-Codespace/WeWatch-sub000/internal/api/http"
	"github.com/Fahim-Codespace/WeWatch-sub000/internal/config"
	"github.com/Fahim-Codespace/WeWatch-sub000/internal/registry"
	"github.com/Fahim-Codespace/WeWatch-sub000/internal/service"
	"github.com/Fahim-Codespace/WeWatch-sub000/lib/logger/slogpretty"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	roomRegistry := registry.NewInMemoryRegistry()
	sessionService := service.NewSessionService(roomRegistry, log)

	sessionController := httpapi.NewSessionController(sessionService, cfg.CORS.AllowedOrigins, log)

	router := httpapi.SetupRouter(sessionController, cfg.CORS.AllowedOrigins)

	log.Info("starting application",
		slog.String("addr", cfg.HTTP.Address),
		slog.String("env", cfg.Env),
	)
	if err := router.Run(cfg.HTTP.Address); err != nil {
		log.Error("http server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = setupPrettySlog()
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
