package inmemory

import (
	"context"
	"slices"
	"sync"
	"todoApp/internal/logger"
	"todoApp/internal/models/todo"
	repo "todoApp/internal/repository"
)

// TodoStorage хранит задачи в порядке добавления. Используется и как
// локальный кэш клиента, и как хранилище сервера ресурса /todos.
type TodoStorage struct {
	storage  map[todo.ID]todo.Todo
	mtx      *sync.RWMutex
	ids      []todo.ID
	revision uint64
}

func NewTodoStorage() *TodoStorage {
	return &TodoStorage{
		storage: make(map[todo.ID]todo.Todo),
		mtx:     &sync.RWMutex{},
		ids:     []todo.ID{},
	}
}

func (s *TodoStorage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *TodoStorage) Create(ctx context.Context, todoToCreate todo.Todo) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[todoToCreate.ID]; ok {
		return repo.ErrAlreadyExists
	}

	s.storage[todoToCreate.ID] = todoToCreate
	s.ids = append(s.ids, todoToCreate.ID)
	s.revision++
	return nil
}

// Update заменяет запись целиком, позиция в списке не меняется
func (s *TodoStorage) Update(ctx context.Context, todoToUpdate todo.Todo) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[todoToUpdate.ID]; !ok {
		return repo.ErrNotFound
	}

	s.storage[todoToUpdate.ID] = todoToUpdate
	s.revision++
	return nil
}

func (s *TodoStorage) GetByID(ctx context.Context, id todo.ID) (todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	todoToGet, ok := s.storage[id]
	if !ok {
		return todo.Todo{}, repo.ErrNotFound
	}
	return todoToGet, nil
}

func (s *TodoStorage) Delete(ctx context.Context, id todo.ID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}

	delete(s.storage, id)
	if ind := slices.Index(s.ids, id); ind >= 0 {
		s.ids = slices.Delete(s.ids, ind, ind+1)
	}
	s.revision++
	return nil
}

// GetAll возвращает копию всех задач в порядке добавления
func (s *TodoStorage) GetAll(ctx context.Context) ([]todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]todo.Todo, 0, len(s.ids))
	for _, id := range s.ids {
		res = append(res, s.storage[id])
	}
	return res, nil
}

// ReplaceAll заменяет содержимое целиком. Повторный id перезаписывает
// более раннюю запись, сохраняя её позицию.
func (s *TodoStorage) ReplaceAll(ctx context.Context, todos []todo.Todo) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.storage = make(map[todo.ID]todo.Todo, len(todos))
	s.ids = make([]todo.ID, 0, len(todos))
	for _, t := range todos {
		if _, ok := s.storage[t.ID]; !ok {
			s.ids = append(s.ids, t.ID)
		}
		s.storage[t.ID] = t
	}
	s.revision++
	return nil
}

func (s *TodoStorage) Count() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return len(s.ids)
}

// Revision растёт при каждом изменении; по нему воркер снапшотов
// понимает, что данные поменялись
func (s *TodoStorage) Revision() uint64 {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.revision
}
