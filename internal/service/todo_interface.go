package service

import (
	"context"
	"todoApp/internal/models/todo"
)

type TodoRepository interface {
	HealthCheck(context.Context) error
	Create(context.Context, todo.Todo) error
	Update(context.Context, todo.Todo) error
	GetByID(context.Context, todo.ID) (todo.Todo, error)
	Delete(context.Context, todo.ID) error
	GetAll(context.Context) ([]todo.Todo, error)
}
