package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"todoApp/internal/board"
	"todoApp/internal/logger"
	"todoApp/internal/middleware"
	"todoApp/internal/models/todo"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const refreshSeconds = 1

// Board - синхронизированный список задач
type Board interface {
	Loading() bool
	Todos(context.Context) ([]todo.Todo, error)
	Create(context.Context, todo.Todo) error
	Toggle(context.Context, todo.ID) (todo.Todo, error)
	Delete(context.Context, todo.ID) error
	Count() int
}

// Pinger проверяет доступность удалённого ресурса
type Pinger interface {
	Ping(context.Context) error
}

type Handler struct {
	board  Board
	remote Pinger
}

func NewHandler(b Board, remote Pinger) *Handler {
	return &Handler{
		board:  b,
		remote: remote,
	}
}

type pageData struct {
	Loading        bool
	RefreshSeconds int
	Todos          []todo.Todo
	Title          string
	Time           string
	Error          string
	TitlePattern   string
	TimePattern    string
}

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recover)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)

	r.Get("/", h.Index)
	r.Post("/todos", h.CreateTodo)
	r.Post("/todos/{id}/toggle", h.ToggleTodo)
	r.Post("/todos/{id}/delete", h.DeleteTodo)
	r.Get("/health", h.HealthCheck)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFiles()))))

	return r
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageData{})
}

// CreateTodo повторяет проверку формы на сервере: неверный ввод не уходит
// на удалённый ресурс, страница возвращается с введёнными значениями
func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		logger.Warn("HTTP: Ошибка чтения формы", zap.Error(err))
		h.render(w, r, http.StatusBadRequest, pageData{Error: "Formulário inválido."})
		return
	}

	title := r.PostForm.Get("title")
	duration := r.PostForm.Get("time")

	if err := todo.Validate(title, duration); err != nil {
		logger.Warn("HTTP: Ошибка валидации формы",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		h.render(w, r, http.StatusBadRequest, pageData{
			Title: title,
			Time:  duration,
			Error: formError(err),
		})
		return
	}

	if err := h.board.Create(detached(r), todo.NewDraft(title, duration)); err != nil {
		logger.Error("HTTP: Ошибка создания задачи", err)
		h.render(w, r, http.StatusInternalServerError, pageData{
			Title: title,
			Time:  duration,
			Error: "Não foi possível criar a tarefa.",
		})
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	id := urlID(r)

	if _, err := h.board.Toggle(detached(r), id); err != nil {
		if errors.Is(err, board.ErrNotFound) {
			h.render(w, r, http.StatusNotFound, pageData{Error: "Tarefa não encontrada."})
			return
		}
		logger.Error("HTTP: Ошибка переключения задачи", err, zap.String("todo_id", id.String()))
		h.render(w, r, http.StatusBadGateway, pageData{Error: "Não foi possível atualizar a tarefa."})
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id := urlID(r)

	if err := h.board.Delete(detached(r), id); err != nil {
		logger.Error("HTTP: Ошибка удаления задачи", err, zap.String("todo_id", id.String()))
		h.render(w, r, http.StatusInternalServerError, pageData{Error: "Não foi possível excluir a tarefa."})
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	remoteStatus := "ok"
	if h.remote != nil {
		if err := h.remote.Ping(r.Context()); err != nil {
			logger.Warn("HTTP: Удалённый ресурс недоступен", zap.Error(err))
			remoteStatus = "unavailable"
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "todo-web",
		"loading": h.board.Loading(),
		"count":   h.board.Count(),
		"remote":  remoteStatus,
	})
}

// render дорисовывает список задач; пока идёт загрузка, показывается
// только индикатор без формы и без сообщения о пустом списке
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	data.TitlePattern = todo.TitlePattern
	data.TimePattern = todo.TimePattern
	data.RefreshSeconds = refreshSeconds
	data.Loading = h.board.Loading()

	if !data.Loading {
		todos, err := h.board.Todos(r.Context())
		if err != nil {
			logger.Error("HTTP: Ошибка получения задач", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		data.Todos = todos
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		logger.Error("HTTP: Ошибка шаблона", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("HTTP: Ошибка записи ответа", zap.Error(err))
	}
}

// detached сохраняет значения контекста запроса (request id), но не его
// отмену: начатый запрос к ресурсу доводится до конца, даже если браузер ушёл
func detached(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

// urlID возвращает id из пути. chi отдаёт параметр в экранированном виде,
// только если в пути были символы вроде %2F (тогда заполнен RawPath).
func urlID(r *http.Request) todo.ID {
	raw := chi.URLParam(r, "id")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(raw); err == nil {
			raw = unescaped
		}
	}
	return todo.ID(raw)
}

func formError(err error) string {
	var validationErr *todo.ValidationError
	if errors.As(err, &validationErr) {
		switch validationErr.Field {
		case "title":
			return "Título inválido: use apenas letras, números, espaços e _."
		case "time":
			return "Duração inválida: informe um número inteiro de horas."
		}
	}
	return "Dados inválidos."
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Warn("HTTP: Ошибка записи ответа", zap.Error(err))
	}
}
