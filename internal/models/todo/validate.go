package todo

import (
	"fmt"
	"regexp"
)

// Шаблоны совпадают с атрибутами pattern у полей формы.
const (
	TitlePattern = `^[A-Za-z0-9 _]*[A-Za-z0-9][A-Za-z0-9 _]*$`
	TimePattern  = `^(0|[1-9][0-9]*)$`
)

var (
	titleRe = regexp.MustCompile(TitlePattern)
	timeRe  = regexp.MustCompile(TimePattern)
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("неверное значение поля '%s': %s", e.Field, e.Reason)
}

func Validate(title, time string) error {
	if title == "" {
		return &ValidationError{Field: "title", Reason: "пустое значение"}
	}
	if !titleRe.MatchString(title) {
		return &ValidationError{Field: "title", Reason: "допустимы только буквы, цифры, пробелы и _"}
	}

	if time == "" {
		return &ValidationError{Field: "time", Reason: "пустое значение"}
	}
	if !timeRe.MatchString(time) {
		return &ValidationError{Field: "time", Reason: "ожидается целое неотрицательное число"}
	}

	return nil
}
