package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"todoApp/internal/logger"
	"todoApp/internal/models/todo"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Store - хранилище, которое можно целиком заменить содержимым файла
type Store interface {
	ReplaceAll(context.Context, []todo.Todo) error
}

// db.json json-server: {"todos": [...]}. JSON является подмножеством YAML,
// поэтому один декодер читает и db.json, и db.yml.
type document struct {
	Todos []record `yaml:"todos"`
}

type record struct {
	ID    scalar `yaml:"id"`
	Title scalar `yaml:"title"`
	Time  scalar `yaml:"time"`
	Done  bool   `yaml:"done"`
}

// scalar принимает строку или число как есть: id в старых файлах
// числовые, time иногда записан числом
type scalar string

func (s *scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("строка %d: ожидалось скалярное значение", node.Line)
	}
	*s = scalar(node.Value)
	return nil
}

// Read читает задачи из файла. Отсутствующий файл не ошибка: возвращается
// пустой список и found=false.
func Read(path string) (todos []todo.Todo, found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("чтение файла %s: %w", path, err)
	}

	todos, err = Decode(data)
	if err != nil {
		return nil, true, fmt.Errorf("разбор файла %s: %w", path, err)
	}
	return todos, true, nil
}

func Decode(data []byte) ([]todo.Todo, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	todos := make([]todo.Todo, 0, len(doc.Todos))
	for i, r := range doc.Todos {
		if r.ID == "" {
			return nil, fmt.Errorf("задача #%d: пустой id", i)
		}
		todos = append(todos, todo.Todo{
			ID:    todo.ID(r.ID),
			Title: string(r.Title),
			Time:  string(r.Time),
			Done:  r.Done,
		})
	}
	return todos, nil
}

// Load наполняет хранилище из файла
func Load(ctx context.Context, path string, store Store) (int, error) {
	todos, found, err := Read(path)
	if err != nil {
		return 0, err
	}
	if !found {
		logger.Info("Seed: Файл не найден, старт с пустым списком", zap.String("file", path))
		return 0, nil
	}

	if err := store.ReplaceAll(ctx, todos); err != nil {
		return 0, fmt.Errorf("загрузка задач в хранилище: %w", err)
	}

	logger.Info("Seed: Задачи загружены", zap.String("file", path), zap.Int("count", len(todos)))
	return len(todos), nil
}

// Write сохраняет задачи в формате db.json через временный файл,
// чтобы читатель никогда не увидел половину файла
func Write(path string, todos []todo.Todo) error {
	if todos == nil {
		todos = []todo.Todo{}
	}

	data, err := json.MarshalIndent(struct {
		Todos []todo.Todo `json:"todos"`
	}{Todos: todos}, "", "  ")
	if err != nil {
		return fmt.Errorf("сериализация задач: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("создание временного файла: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("запись временного файла: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("закрытие временного файла: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("замена файла %s: %w", path, err)
	}
	return nil
}
