package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"deepforge-server/internal/engine"
	"deepforge-server/internal/server"
	"deepforge-server/internal/version"
	"deepforge-server/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var seed int64
	var width, height int
	// Читаем флаг -seed. По умолчанию 0 (значит сгенерировать случайно).
	flag.Int64Var(&seed, "seed", 0, "Master world seed (0 for random)")
	flag.IntVar(&width, "width", 80, "Level width in tiles")
	flag.IntVar(&height, "height", 50, "Level height in tiles")
	flag.Parse()

	logger.Log.Info("Starting DeepForge...")
	logger.Log.Info(version.String())

	// Формируем конфиг
	cfg := engine.NewConfig()
	if seed != 0 {
		cfg.Seed = seed
		logger.Log.Infof("🎲 Using explicit Master Seed: %d", seed)
	} else {
		logger.Log.Infof("🎲 Using random Master Seed: %d", cfg.Seed)
	}
	cfg.MapWidth = width
	cfg.MapHeight = height

	port := os.Getenv("DF_PORT")
	if port == "" {
		port = "8080"
	}

	// 2. Генерация стартового уровня и запуск сервера
	srv, err := server.New(cfg, port)
	if err != nil {
		logger.Log.Fatal("Failed to build the initial level:", err)
	}

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error:", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")
	logger.Log.Info("Done.")
}
