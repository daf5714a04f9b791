package service

import (
	"context"
	"errors"
	"fmt"
	"todoApp/internal/logger"
	"todoApp/internal/models/todo"
	rep "todoApp/internal/repository"

	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type TodoService struct {
	repo TodoRepository
}

func NewTodoService(repo TodoRepository) *TodoService {
	return &TodoService{
		repo: repo,
	}
}

func (s *TodoService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *TodoService) ListTodos(ctx context.Context) ([]todo.Todo, error) {
	todos, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return todos, nil
}

func (s *TodoService) GetTodo(ctx context.Context, id todo.ID) (todo.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return todo.Todo{}, s.mapRepoError(id, err, "получение задачи")
	}
	return t, nil
}

// CreateTodo сохраняет запись; без id сервер назначает его сам
func (s *TodoService) CreateTodo(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	if t.ID == "" {
		t.ID = todo.NewID()
	}

	if err := validate(t); err != nil {
		return todo.Todo{}, err
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return todo.Todo{}, s.mapRepoError(t.ID, err, "создание задачи")
	}

	logger.Info("Service: Задача создана", zap.String("todo_id", t.ID.String()))
	return t, nil
}

// ReplaceTodo заменяет запись целиком, id из пути имеет приоритет
func (s *TodoService) ReplaceTodo(ctx context.Context, id todo.ID, t todo.Todo) (todo.Todo, error) {
	t.ID = id

	if err := validate(t); err != nil {
		return todo.Todo{}, err
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return todo.Todo{}, s.mapRepoError(id, err, "обновление задачи")
	}

	logger.Info("Service: Задача обновлена", zap.String("todo_id", id.String()), zap.Bool("done", t.Done))
	return t, nil
}

func (s *TodoService) PatchTodo(ctx context.Context, id todo.ID, options ...TodoOption) (todo.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return todo.Todo{}, s.mapRepoError(id, err, "получение задачи")
	}

	for _, opt := range options {
		if opt != nil {
			opt(&t)
		}
	}

	return s.ReplaceTodo(ctx, id, t)
}

func (s *TodoService) DeleteTodo(ctx context.Context, id todo.ID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(id, err, "удаление задачи")
	}

	logger.Info("Service: Задача удалена", zap.String("todo_id", id.String()))
	return nil
}

func (s *TodoService) mapRepoError(id todo.ID, err error, operation string) error {
	switch {
	case errors.Is(err, rep.ErrNotFound):
		logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
		return NewNotFound(id.String(), err)
	case errors.Is(err, rep.ErrAlreadyExists):
		logger.Info("Service: Задача уже существует", zap.String("target_id", id.String()))
		return NewAlreadyExists(id.String(), err)
	default:
		return fmt.Errorf("%s: %w", operation, err)
	}
}

func validate(t todo.Todo) error {
	if err := t.Validate(); err != nil {
		var validationErr *todo.ValidationError
		if errors.As(err, &validationErr) {
			return NewValidationError(validationErr.Field, validationErr.Reason)
		}
		return err
	}
	return nil
}
