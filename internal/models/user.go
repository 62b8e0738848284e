package models

import "gorm.io/gorm"

// User связывает Telegram-аккаунт с ключом состояния
type User struct {
	gorm.Model
	TelegramID int64 `gorm:"uniqueIndex"`
	Username   string
	FirstName  string
	LastName   string
	StateKey   string `gorm:"size:191;uniqueIndex"`
	Role       string `gorm:"default:'user'"`
}
