package model

import (
	"strconv"
	"time"
)

// TelegramUser identifies the Telegram account behind a chat or Mini App session.
type TelegramUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// Key is the string form of the Telegram id used to scope carts and history.
func (u TelegramUser) Key() string {
	return strconv.FormatInt(u.ID, 10)
}

// User is a registered storefront customer.
type User struct {
	ID         string    `json:"id"`
	TelegramID string    `json:"telegramId"`
	FirstName  string    `json:"firstName,omitempty"`
	LastName   string    `json:"lastName,omitempty"`
	Username   string    `json:"username,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TelegramAuthRequest is the body of POST /api/auth/telegram.
type TelegramAuthRequest struct {
	InitData string `json:"initData"`
}

// TelegramAuthResponse carries the issued session token.
type TelegramAuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}
