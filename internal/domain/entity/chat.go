package entity

import (
	"time"

	"gorm.io/gorm"
)

// ChatRecord is one user/bot exchange persisted per session.
type ChatRecord struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID   string         `gorm:"index;not null;type:uuid" json:"session_id"`
	UserMessage string         `gorm:"not null;type:text" json:"user_message"`
	BotResponse string         `gorm:"not null;type:text" json:"bot_response"`
	TemplateID  string         `gorm:"type:text" json:"template_id"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
