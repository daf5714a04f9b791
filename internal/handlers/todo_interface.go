package handlers

import (
	"context"
	"todoApp/internal/models/todo"
	"todoApp/internal/service"
)

type Service interface {
	HealthCheck(context.Context) error
	ListTodos(context.Context) ([]todo.Todo, error)
	GetTodo(context.Context, todo.ID) (todo.Todo, error)
	CreateTodo(context.Context, todo.Todo) (todo.Todo, error)
	ReplaceTodo(context.Context, todo.ID, todo.Todo) (todo.Todo, error)
	PatchTodo(context.Context, todo.ID, ...service.TodoOption) (todo.Todo, error)
	DeleteTodo(context.Context, todo.ID) error
}
