package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/torchan-dev/torchan/internal/errors"
)

type PostValidator struct{}

func (e *PostValidator) Title(title string) error {
	if utf8.RuneCountInString(title) > 100 {
		return &errors.ErrorWithStatusCode{Message: "Title is too long", StatusCode: 400}
	}
	return nil
}

func (e *PostValidator) Content(text string) error {
	if strings.TrimSpace(text) == "" {
		return &errors.ErrorWithStatusCode{Message: "Content is required", StatusCode: 400}
	}
	if utf8.RuneCountInString(text) > 10_000 {
		return &errors.ErrorWithStatusCode{Message: "Content is too long", StatusCode: 400}
	}
	return nil
}
