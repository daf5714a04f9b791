package service

import "todoApp/internal/models/todo"

// TodoOption - частичное изменение задачи (PATCH)
type TodoOption func(*todo.Todo)

func WithTitle(title string) TodoOption {
	return func(t *todo.Todo) {
		t.Title = title
	}
}

func WithTime(time string) TodoOption {
	return func(t *todo.Todo) {
		t.Time = time
	}
}

func WithDone(done bool) TodoOption {
	return func(t *todo.Todo) {
		t.Done = done
	}
}
