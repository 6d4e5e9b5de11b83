package models

import "time"

// Step types
const (
	StepTypePhoto     = "photo"
	StepTypeVideo     = "video"
	StepTypeGrowth    = "growth"
	StepTypeFirstWord = "first_word"
	StepTypeMilestone = "milestone"
)

// ValidStepType reports whether t is one of the known step types.
func ValidStepType(t string) bool {
	switch t {
	case StepTypePhoto, StepTypeVideo, StepTypeGrowth, StepTypeFirstWord, StepTypeMilestone:
		return true
	}
	return false
}

// User represents an account owner. Users are created and mutated by the
// external auth provider; this service only reads them.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	Image         *string   `json:"image,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Session is an auth-provider session row resolved per request.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	IPAddress *string   `json:"ip_address,omitempty"`
	UserAgent *string   `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Baby represents a tracked child owned by a user.
type Baby struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Birthdate string    `json:"birthdate"` // "YYYY-MM-DD"
	PhotoURL  *string   `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Step represents a single dated memory entry for a baby.
type Step struct {
	ID               string    `json:"id"`
	BabyID           string    `json:"baby_id"`
	PhotoURL         *string   `json:"photo_url,omitempty"`
	Date             string    `json:"date"` // "YYYY-MM-DD"
	LocationID       *string   `json:"location_id,omitempty"`
	LocationNickname *string   `json:"location_nickname,omitempty"` // denormalized for fast display
	IsMajor          bool      `json:"is_major"`
	Type             string    `json:"type"`
	Weight           *float64  `json:"weight,omitempty"` // kg, growth type
	Height           *float64  `json:"height,omitempty"` // cm, growth type
	FirstWord        *string   `json:"first_word,omitempty"`
	Title            *string   `json:"title,omitempty"`
	Caption          *string   `json:"caption,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// SavedLocation is a user-scoped named place reused across steps.
type SavedLocation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Nickname  string    `json:"nickname"`
	Address   string    `json:"address"`
	FullName  *string   `json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DailyDescription is the single free-text note for one (baby, date) pair.
type DailyDescription struct {
	ID          string    `json:"id"`
	BabyID      string    `json:"baby_id"`
	Date        string    `json:"date"` // "YYYY-MM-DD"
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}
