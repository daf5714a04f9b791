package worker

import (
	"context"
	"fmt"
	"sync"
	"time"
	"todoApp/internal/logger"
	"todoApp/internal/models/todo"
	"todoApp/internal/seed"

	"go.uber.org/zap"
)

const defaultInterval = 5 * time.Second

// SnapshotSource - inmemory хранилище с номером ревизии
type SnapshotSource interface {
	GetAll(context.Context) ([]todo.Todo, error)
	Revision() uint64
}

// SnapshotWorker периодически сохраняет хранилище в файл db.json,
// если с прошлой записи что-то изменилось
type SnapshotWorker struct {
	store    SnapshotSource
	path     string
	interval time.Duration

	mtx          sync.Mutex
	lastRevision uint64
}

func NewSnapshotWorker(store SnapshotSource, path string, interval *time.Duration) *SnapshotWorker {
	intervalToSet := defaultInterval
	if interval != nil && *interval > 0 {
		intervalToSet = *interval
	}

	return &SnapshotWorker{
		store:        store,
		path:         path,
		interval:     intervalToSet,
		lastRevision: store.Revision(),
	}
}

// Start блокируется до отмены ctx; перед выходом делает последнюю запись
func (w *SnapshotWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.Check(ctx); err != nil {
				logger.Warn("Worker: Ошибка сохранения снапшота", zap.Error(err))
			}
		case <-ctx.Done():
			logger.Info("Worker: Сохранение снапшота останавливается")
			if _, err := w.Check(context.WithoutCancel(ctx)); err != nil {
				logger.Error("Worker: Ошибка финального снапшота", err)
			}
			return
		}
	}
}

// Check записывает файл, если ревизия хранилища изменилась.
// Возвращает true, если файл был перезаписан.
func (w *SnapshotWorker) Check(ctx context.Context) (bool, error) {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	start := time.Now()

	revision := w.store.Revision()
	if revision == w.lastRevision {
		return false, nil
	}

	todos, err := w.store.GetAll(ctx)
	if err != nil {
		return false, fmt.Errorf("получение задач: %w", err)
	}

	if err := seed.Write(w.path, todos); err != nil {
		return false, fmt.Errorf("запись снапшота: %w", err)
	}
	w.lastRevision = revision

	logger.Info("Worker: Снапшот сохранён",
		zap.String("file", w.path),
		zap.Int("count", len(todos)),
		zap.Uint64("revision", revision),
		zap.Duration("ms", time.Since(start)))
	return true, nil
}
