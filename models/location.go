package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Location is a parking facility that has its own survey entry point.
// The slug is the external key: it is what gets baked into the QR code
// and what the public API resolves.
type Location struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Slug      string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	QRCodeURL *string   `gorm:"size:500" json:"qr_code_url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Responses []SurveyResponse `gorm:"foreignKey:LocationID" json:"-"`
}

func (Location) TableName() string {
	return "locations"
}

func (l *Location) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
