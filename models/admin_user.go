package models

import "time"

// AdminUser is a dashboard account. There is no visitor-facing account
// concept; survey submissions are anonymous.
type AdminUser struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}
