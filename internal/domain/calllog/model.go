package calllog

import (
	"time"

	"github.com/tressahealth/moneyback/internal/types"
)

// HairCoachCall represents one hair-coach call attempt. Only connected calls
// count toward the eligibility threshold.
type HairCoachCall struct {
	ID              string    `json:"id"`
	CustomerID      string    `json:"customer_id"`
	HairCoachID     string    `json:"hair_coach_id,omitempty"`
	IsConnected     bool      `json:"is_connected"`
	CalledAt        time.Time `json:"called_at"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	types.BaseModel
}
