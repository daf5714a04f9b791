package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"todoApp/internal/logger"
	"todoApp/internal/models/todo"
	"todoApp/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrNotFound      = errors.New("задача не найдена в локальном списке")
	ErrAlreadyLoaded = errors.New("задачи уже загружены")
)

// Remote - удалённый ресурс /todos
type Remote interface {
	List(context.Context) ([]todo.Todo, error)
	Create(context.Context, todo.Todo) (*todo.Todo, error)
	Update(context.Context, todo.Todo) (*todo.Todo, error)
	Delete(context.Context, todo.ID) error
}

// LocalStore - локальная копия коллекции в порядке добавления
type LocalStore interface {
	GetAll(context.Context) ([]todo.Todo, error)
	GetByID(context.Context, todo.ID) (todo.Todo, error)
	Create(context.Context, todo.Todo) error
	Update(context.Context, todo.Todo) error
	Delete(context.Context, todo.ID) error
	ReplaceAll(context.Context, []todo.Todo) error
	Count() int
}

// Board зеркалирует удалённую коллекцию в локальном хранилище.
// Пересекающиеся действия не сериализуются: в локальном списке остаётся
// результат того запроса, который завершился последним.
type Board struct {
	remote Remote
	local  LocalStore

	loading  atomic.Bool
	loadOnce sync.Once
	loaded   chan struct{}
}

// New создаёт доску в состоянии загрузки; состояние снимает Load
func New(remote Remote, local LocalStore) *Board {
	b := &Board{
		remote: remote,
		local:  local,
		loaded: make(chan struct{}),
	}
	b.loading.Store(true)
	return b
}

func (b *Board) Loading() bool {
	return b.loading.Load()
}

// Loaded закрывается, когда первичная загрузка завершилась (с ошибкой или без)
func (b *Board) Loaded() <-chan struct{} {
	return b.loaded
}

// Load один раз загружает коллекцию целиком. При ошибке список остаётся
// пустым, а состояние загрузки всё равно снимается.
func (b *Board) Load(ctx context.Context) error {
	err := ErrAlreadyLoaded
	b.loadOnce.Do(func() {
		defer func() {
			b.loading.Store(false)
			close(b.loaded)
		}()
		err = b.load(ctx)
	})
	return err
}

func (b *Board) load(ctx context.Context) error {
	start := time.Now()

	todos, err := b.remote.List(ctx)
	if err != nil {
		logger.Error("Board: Не удалось загрузить задачи", err)
		return fmt.Errorf("загрузка задач: %w", err)
	}

	if err := b.local.ReplaceAll(ctx, todos); err != nil {
		logger.Error("Board: Не удалось сохранить задачи локально", err)
		return fmt.Errorf("сохранение задач: %w", err)
	}

	logger.Info("Board: Задачи загружены",
		zap.Int("count", len(todos)),
		zap.Duration("ms", time.Since(start)))
	return nil
}

// Create отправляет черновик на сервер и добавляет в список сам черновик,
// а не ответ сервера. Ошибка сервера только логируется.
func (b *Board) Create(ctx context.Context, draft todo.Todo) error {
	if err := draft.Validate(); err != nil {
		return err
	}

	if _, err := b.remote.Create(ctx, draft); err != nil {
		logger.Warn("Board: Сервер не принял задачу, она добавлена только локально",
			zap.String("todo_id", draft.ID.String()),
			zap.Error(err))
	}

	if err := b.local.Create(ctx, draft); err != nil {
		logger.Error("Board: Не удалось добавить задачу в список", err,
			zap.String("todo_id", draft.ID.String()))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	logger.Info("Board: Задача создана", zap.String("todo_id", draft.ID.String()))
	return nil
}

// Toggle инвертирует done у копии записи, отправляет её целиком и заменяет
// локальную запись ответом сервера. При ошибке сервера список не меняется.
func (b *Board) Toggle(ctx context.Context, id todo.ID) (todo.Todo, error) {
	current, err := b.local.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return todo.Todo{}, ErrNotFound
		}
		return todo.Todo{}, fmt.Errorf("получение задачи: %w", err)
	}

	updated, err := b.remote.Update(ctx, current.Toggled())
	if err != nil {
		logger.Warn("Board: Сервер не обновил задачу",
			zap.String("todo_id", id.String()),
			zap.Error(err))
		return todo.Todo{}, fmt.Errorf("обновление задачи %s: %w", id, err)
	}
	if updated == nil {
		return todo.Todo{}, fmt.Errorf("обновление задачи %s: пустой ответ сервера", id)
	}

	if err := b.local.Update(ctx, *updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// запись удалили, пока запрос был в полёте
			logger.Info("Board: Ответ для отсутствующей задачи отброшен",
				zap.String("todo_id", updated.ID.String()))
			return *updated, nil
		}
		return todo.Todo{}, fmt.Errorf("обновление задачи в списке: %w", err)
	}

	logger.Info("Board: Задача обновлена",
		zap.String("todo_id", updated.ID.String()),
		zap.Bool("done", updated.Done))
	return *updated, nil
}

// Delete удаляет задачу на сервере и затем локально, независимо от ответа
func (b *Board) Delete(ctx context.Context, id todo.ID) error {
	if err := b.remote.Delete(ctx, id); err != nil {
		logger.Warn("Board: Сервер не удалил задачу, она удалена только локально",
			zap.String("todo_id", id.String()),
			zap.Error(err))
	}

	if err := b.local.Delete(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("удаление задачи из списка: %w", err)
	}

	logger.Info("Board: Задача удалена", zap.String("todo_id", id.String()))
	return nil
}

// Todos возвращает копию локального списка
func (b *Board) Todos(ctx context.Context) ([]todo.Todo, error) {
	return b.local.GetAll(ctx)
}

func (b *Board) Count() int {
	return b.local.Count()
}
