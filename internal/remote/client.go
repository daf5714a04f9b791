package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"todoApp/internal/logger"
	"todoApp/internal/models/todo"

	"go.uber.org/zap"
)

const maxErrorBody = 4 << 10

// Client - HTTP-клиент ресурса /todos
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент; timeout 0 - запросы не ограничены по времени
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// StatusError - ответ ресурса с кодом вне диапазона 2xx
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: статус %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// List получает всю коллекцию через GET /todos
func (c *Client) List(ctx context.Context) ([]todo.Todo, error) {
	var todos []todo.Todo
	if err := c.do(ctx, http.MethodGet, "/todos", nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []todo.Todo{}
	}
	return todos, nil
}

// Create отправляет запись через POST /todos. Тело ответа необязательно:
// при пустом ответе возвращается nil без ошибки.
func (c *Client) Create(ctx context.Context, t todo.Todo) (*todo.Todo, error) {
	var created *todo.Todo
	if err := c.do(ctx, http.MethodPost, "/todos", t, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// Update отправляет запись целиком через PUT /todos/{id} и возвращает
// запись из ответа сервера
func (c *Client) Update(ctx context.Context, t todo.Todo) (*todo.Todo, error) {
	var updated *todo.Todo
	if err := c.do(ctx, http.MethodPut, todoPath(t.ID), t, &updated); err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("PUT %s: пустой ответ сервера", todoPath(t.ID))
	}
	return updated, nil
}

func (c *Client) Delete(ctx context.Context, id todo.ID) error {
	return c.do(ctx, http.MethodDelete, todoPath(id), nil, nil)
}

// Ping проверяет доступность ресурса
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/todos", nil, nil)
}

func todoPath(id todo.ID) string {
	return "/todos/" + url.PathEscape(id.String())
}

// do выполняет запрос; out заполняется только если сервер вернул тело
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	start := time.Now()

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("сериализация запроса %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("создание запроса %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID := logger.RequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("Remote: Ошибка запроса",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
			zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("запрос %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.Warn("Remote: Неуспешный статус",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.Duration("ms", time.Since(start)))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("чтение ответа %s %s: %w", method, path, err)
	}

	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("разбор ответа %s %s: %w", method, path, err)
		}
	}

	logger.Info("Remote: Запрос выполнен",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("ms", time.Since(start)))
	return nil
}
