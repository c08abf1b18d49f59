package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SurveyResponse is one completed survey. Rows are insert-only: the only
// mutation the admin API offers is deletion.
type SurveyResponse struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LocationID uuid.UUID `gorm:"type:uuid;not null;index" json:"location_id"`
	Location   Location  `gorm:"foreignKey:LocationID" json:"location,omitempty"`

	TravelerType      string `gorm:"size:20;not null" json:"traveler_type"`
	ParkingPreference string `gorm:"size:20;not null" json:"parking_preference"`
	UsageFrequency    string `gorm:"size:20;not null" json:"usage_frequency"`
	ExitMethod        string `gorm:"size:20;not null" json:"exit_method"`
	ExitTime          string `gorm:"size:20;not null" json:"exit_time"`

	// Only meaningful when ExitMethod is "cashier"; stored as given either way.
	CashierEfficient *bool `json:"cashier_efficient"`

	CleanlinessSurface   int `gorm:"not null" json:"cleanliness_surface"`
	CleanlinessStairs    int `gorm:"not null" json:"cleanliness_stairs"`
	CleanlinessElevators int `gorm:"not null" json:"cleanliness_elevators"`
	OverallExperience    int `gorm:"not null" json:"overall_experience"`

	Comments  *string `gorm:"type:text" json:"comments"`
	FirstName string  `gorm:"size:100;not null" json:"first_name"`
	Phone     *string `gorm:"size:50" json:"phone"`
	Email     *string `gorm:"size:255" json:"email"`

	IPAddress string    `gorm:"size:64" json:"ip_address"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (SurveyResponse) TableName() string {
	return "survey_responses"
}

func (r *SurveyResponse) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
