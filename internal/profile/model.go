package profile

import (
	"time"

	"github.com/eleven-am/voice-recorder/internal/shared"
)

type Profile struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PhoneNumber string         `gorm:"size:20" json:"phone_number,omitempty"`
	Name        string         `gorm:"size:120" json:"name"`
	ProfileData shared.JSONMap `json:"profile_data"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
