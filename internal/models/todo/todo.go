package todo

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type Todo struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`
	Time  string `json:"time"`
	Done  bool   `json:"done"`
}

// ID хранится строкой. Старые файлы db.json содержат числовые id
// (Math.random()), поэтому при чтении принимаем и число, и строку.
type ID string

func NewID() ID {
	return ID(uuid.NewString())
}

func (id ID) String() string {
	return string(id)
}

func (id *ID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("чтение id: %w", err)
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("чтение id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// NewDraft создаёт черновик задачи из полей формы
func NewDraft(title, time string) Todo {
	return Todo{
		ID:    NewID(),
		Title: title,
		Time:  time,
		Done:  false,
	}
}

// Toggled возвращает копию с инвертированным done, сам t не меняется
func (t Todo) Toggled() Todo {
	t.Done = !t.Done
	return t
}

func (t Todo) Validate() error {
	if t.ID == "" {
		return &ValidationError{Field: "id", Reason: "пустое значение"}
	}
	return Validate(t.Title, t.Time)
}
