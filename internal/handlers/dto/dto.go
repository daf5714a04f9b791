package dto

import (
	"todoApp/internal/models/todo"
	"todoApp/internal/service"
)

type TodoRequest struct {
	ID    todo.ID `json:"id,omitempty"`
	Title string  `json:"title"`
	Time  string  `json:"time"`
	Done  bool    `json:"done"`
}

func (r TodoRequest) ToTodo() todo.Todo {
	return todo.Todo{
		ID:    r.ID,
		Title: r.Title,
		Time:  r.Time,
		Done:  r.Done,
	}
}

// PatchTodoRequest - только переданные поля попадают в изменение
type PatchTodoRequest struct {
	Title *string `json:"title,omitempty"`
	Time  *string `json:"time,omitempty"`
	Done  *bool   `json:"done,omitempty"`
}

func (r PatchTodoRequest) Options() []service.TodoOption {
	var options []service.TodoOption
	if r.Title != nil {
		options = append(options, service.WithTitle(*r.Title))
	}
	if r.Time != nil {
		options = append(options, service.WithTime(*r.Time))
	}
	if r.Done != nil {
		options = append(options, service.WithDone(*r.Done))
	}
	return options
}

func (r PatchTodoRequest) Empty() bool {
	return r.Title == nil && r.Time == nil && r.Done == nil
}
