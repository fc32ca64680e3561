package middleware

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ValidateUserID validates a cart or history owner id.
func ValidateUserID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("user ID cannot be empty")
	}
	if len(id) > 64 {
		return errors.New("user ID exceeds maximum length")
	}
	if !utf8.ValidString(id) {
		return errors.New("user ID must be valid UTF-8")
	}
	return nil
}

// ValidateItemID validates a cart line id.
func ValidateItemID(id string) error {
	if id == "" || len(id) > 64 {
		return errors.New("invalid item ID")
	}
	return nil
}

// ValidateSearch validates a catalog search term.
func ValidateSearch(q string) error {
	if len(q) > 200 {
		return errors.New("search query exceeds maximum length")
	}
	if !utf8.ValidString(q) {
		return errors.New("search query must be valid UTF-8")
	}
	return nil
}

// ValidateChatText validates a free-text shopping question.
func ValidateChatText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("text cannot be empty")
	}
	if len(text) > 4096 {
		return errors.New("text exceeds maximum length")
	}
	if !utf8.ValidString(text) {
		return errors.New("text must be valid UTF-8")
	}
	return nil
}
