package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"
	"todoApp/internal/board"
	"todoApp/internal/config"
	"todoApp/internal/handlers"
	"todoApp/internal/logger"
	"todoApp/internal/remote"
	"todoApp/internal/repository/todo/inmemory"
	"todoApp/internal/repository/todo/postgres"
	"todoApp/internal/seed"
	"todoApp/internal/service"
	"todoApp/internal/web"
	"todoApp/internal/worker"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

type App struct {
	config     *config.Config
	server     *http.Server
	repository service.TodoRepository // интерфейс!
	board      *board.Board
	background []func(context.Context) // воркеры, живут до отмены контекста
	shutdowns  []func() error          // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func() error, 0),
	}
}

// InitAPI собирает сервер ресурса /todos
func (a *App) InitAPI(ctx context.Context) error {
	repo, err := a.initRepository(ctx)
	if err != nil {
		return fmt.Errorf("инициализация хранилища: %w", err)
	}
	a.repository = repo

	todoService := service.NewTodoService(repo)
	router := handlers.NewRouter(handlers.NewTodoHandler(todoService), handlers.RouterConfig{
		RateLimitRPM:   a.config.API.RateLimitRPM,
		RequestTimeout: a.config.API.RequestTimeout,
	})

	a.server = &http.Server{
		Addr:              a.config.APIAddr(),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return nil
}

// InitWeb собирает клиент: страница + синхронизация с удалённым ресурсом.
// Первичная загрузка списка запускается в Run.
func (a *App) InitWeb(ctx context.Context) error {
	client := remote.NewClient(a.config.Remote.BaseURL, a.config.Remote.Timeout)
	a.board = board.New(client, inmemory.NewTodoList())

	a.background = append(a.background, func(ctx context.Context) {
		// ошибка уже залогирована, пользователь увидит пустой список
		_ = a.board.Load(ctx)
	})

	a.server = &http.Server{
		Addr:              a.config.WebAddr(),
		Handler:           web.NewRouter(web.NewHandler(a.board, client)),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	logger.Info("App: Клиент настроен", zap.String("remote", a.config.Remote.BaseURL))
	return nil
}

func (a *App) initRepository(ctx context.Context) (service.TodoRepository, error) {
	switch a.config.Repository.Type {
	case config.RepositoryPostgres:
		if err := postgres.Migrate(a.config.Database.URL); err != nil {
			return nil, err
		}

		storage, err := postgres.New(ctx, a.config.Database.URL,
			postgres.WithMaxConns(a.config.Database.MaxConnections),
			postgres.WithMinConns(a.config.Database.MinConnections),
			postgres.WithIdleTimeout(a.config.Database.IdleTimeout))
		if err != nil {
			return nil, err
		}

		a.shutdowns = append(a.shutdowns, func() error {
			logger.Info("App: Закрытие пула соединений...")
			storage.Close()
			return nil
		})
		logger.Info("App: Используется PostgreSQL")
		return storage, nil

	default:
		storage := inmemory.NewTodoStorage()
		if a.config.Seed.File == "" {
			logger.Info("App: Используется inmemory хранилище без файла")
			return storage, nil
		}

		if _, err := seed.Load(ctx, a.config.Seed.File, storage); err != nil {
			return nil, err
		}

		if interval := a.config.Seed.SnapshotInterval; interval > 0 {
			snapshots := worker.NewSnapshotWorker(storage, a.config.Seed.File, &interval)
			a.background = append(a.background, snapshots.Start)
		}
		logger.Info("App: Используется inmemory хранилище", zap.String("seed", a.config.Seed.File))
		return storage, nil
	}
}

func (a *App) Handler() http.Handler {
	if a.server == nil {
		return nil
	}
	return a.server.Handler
}

func (a *App) Board() *board.Board {
	return a.board
}

// Run блокируется до отмены ctx или ошибки сервера, затем останавливает
// сервер, дожидается воркеров и выполняет shutdown-функции
func (a *App) Run(ctx context.Context) error {
	if a.server == nil {
		return errors.New("приложение не инициализировано")
	}

	g, ctx := errgroup.WithContext(ctx)

	for _, run := range a.background {
		g.Go(func() error {
			run(ctx)
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("App: Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("запуск сервера: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("App: Остановка сервера...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка сервера: %w", err)
		}
		return nil
	})

	err := g.Wait()
	return multierr.Append(err, a.Shutdown())
}

// Shutdown выполняет функции остановки в обратном порядке
func (a *App) Shutdown() error {
	var err error
	for _, shutdown := range slices.Backward(a.shutdowns) {
		err = multierr.Append(err, shutdown())
	}
	a.shutdowns = nil
	return err
}
