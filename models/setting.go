package models

import "time"

// Setting is a key/value row for small shared configuration. Settings are
// written with an upsert keyed on Key; a missing row is not an error, callers
// fall back to a default.
type Setting struct {
	Key         string    `gorm:"size:100;primaryKey" json:"key"`
	Value       string    `gorm:"type:text;not null" json:"value"`
	Description string    `gorm:"size:255" json:"description"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// SettingQRBaseURL is the base URL prepended to /survey/{slug} when
// building the URLs encoded into QR codes.
const SettingQRBaseURL = "qr_base_url"
