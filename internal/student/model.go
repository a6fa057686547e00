package student

import (
	"time"

	"gorm.io/datatypes"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Student is the persistent student model. Profile fields feed the welcome
// and pedagogy prompts; Skills is a free-form score map maintained by the
// feedback flow.
type Student struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Username       string         `gorm:"uniqueIndex;size:32;not null" json:"username"`
	PasswordHash   string         `gorm:"size:128;not null"`
	Role           Role           `gorm:"type:varchar(10);not null;default:'student'" json:"role"`
	Name           string         `gorm:"size:64" json:"name"`
	NativeLanguage string         `gorm:"size:32" json:"native_language"`
	Proficiency    string         `gorm:"size:16" json:"proficiency"` // Beginner / Intermediate / Advanced
	TargetScore    int            `json:"target_score"`
	Skills         datatypes.JSON `gorm:"type:jsonb" json:"skills"`
	LearningGoals  datatypes.JSON `gorm:"type:jsonb" json:"learning_goals"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}
