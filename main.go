package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	app "github.com/rocketscienceinc/minigames-backend/internal"
	"github.com/rocketscienceinc/minigames-backend/internal/config"
)

// main - is the entry point of the minigames backend. It loads the configuration, logs the scene defaults and runs the servers.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	conf := initConfig()
	logger := initLogger(conf)

	logStartup(logger, conf)

	if err := app.RunApp(logger, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// initialize config.
func initConfig() *config.Config {
	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	return config.MustLoad(filepath.Join(baseDir, "./config.yml"))
}

// initialize logger.
func initLogger(conf *config.Config) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// logStartup reports the ports and the scene defaults every new RPG session starts with.
func logStartup(logger *slog.Logger, conf *config.Config) {
	archetypes := conf.Game.Archetypes()

	logger.Info("starting minigames backend",
		"httpPort", conf.HTTPPort,
		"socketPort", conf.SocketPort,
		"redis", conf.Redis.GetRedisAddr(),
		"playerArchetypes", archetypes[:],
		"opponent", conf.Game.Opponent,
		"narrationDelay", conf.Game.NarrationDelay.String(),
		"tickInterval", conf.Game.TickInterval.String(),
	)
}
