package inmemory

import (
	"context"
	"slices"
	"sync"
	"todoApp/internal/models/todo"
	repo "todoApp/internal/repository"
)

// TodoList - локальный список клиента. В отличие от TodoStorage хранит
// последовательность как есть: записи без id и с повторяющимися id
// остаются отдельными элементами, операции по id затрагивают все совпадения.
type TodoList struct {
	mtx   sync.RWMutex
	items []todo.Todo
}

func NewTodoList() *TodoList {
	return &TodoList{
		items: []todo.Todo{},
	}
}

// Create добавляет запись в конец списка без проверки id
func (l *TodoList) Create(ctx context.Context, t todo.Todo) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	l.items = append(l.items, t)
	return nil
}

// GetByID возвращает первую запись с таким id
func (l *TodoList) GetByID(ctx context.Context, id todo.ID) (todo.Todo, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	ind := slices.IndexFunc(l.items, func(t todo.Todo) bool { return t.ID == id })
	if ind < 0 {
		return todo.Todo{}, repo.ErrNotFound
	}
	return l.items[ind], nil
}

// Update заменяет все записи с id обновлённой записи
func (l *TodoList) Update(ctx context.Context, t todo.Todo) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	found := false
	for i := range l.items {
		if l.items[i].ID == t.ID {
			l.items[i] = t
			found = true
		}
	}
	if !found {
		return repo.ErrNotFound
	}
	return nil
}

// Delete убирает все записи с этим id
func (l *TodoList) Delete(ctx context.Context, id todo.ID) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	before := len(l.items)
	l.items = slices.DeleteFunc(l.items, func(t todo.Todo) bool { return t.ID == id })
	if len(l.items) == before {
		return repo.ErrNotFound
	}
	return nil
}

func (l *TodoList) GetAll(ctx context.Context) ([]todo.Todo, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return slices.Clone(l.items), nil
}

// ReplaceAll заменяет список полученной последовательностью без изменений
func (l *TodoList) ReplaceAll(ctx context.Context, todos []todo.Todo) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	l.items = append(make([]todo.Todo, 0, len(todos)), todos...)
	return nil
}

func (l *TodoList) Count() int {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return len(l.items)
}
