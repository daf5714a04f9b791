package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"todoApp/internal/app"
	"todoApp/internal/config"
	"todoApp/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ошибка загрузки конфига:", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Development); err != nil {
		fmt.Fprintln(os.Stderr, "ошибка инициализации логгера:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg)
	if err := a.InitWeb(ctx); err != nil {
		logger.Error("App: Ошибка инициализации", err)
		return
	}

	if err := a.Run(ctx); err != nil {
		logger.Error("App: Клиент завершился с ошибкой", err)
		return
	}
	logger.Info("App: Клиент остановлен")
}
