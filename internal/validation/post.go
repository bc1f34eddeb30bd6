package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxPostTitleLen максимальная длина заголовка поста
	MaxPostTitleLen = 120
	// MaxPostContentLen максимальная длина текста поста
	MaxPostContentLen = 10000
)

// ValidatePost проверяет заголовок и текст поста
func ValidatePost(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if utf8.RuneCountInString(title) > MaxPostTitleLen {
		return fmt.Errorf("title must be at most %d characters long", MaxPostTitleLen)
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content cannot be empty")
	}
	if utf8.RuneCountInString(content) > MaxPostContentLen {
		return fmt.Errorf("content must be at most %d characters long", MaxPostContentLen)
	}
	return nil
}
