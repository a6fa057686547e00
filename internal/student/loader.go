package student

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"rox-tutor/internal/tutor"
)

// Loader adapts the student table to the turn engine's needs.
type Loader struct {
	db *gorm.DB
}

func NewLoader(db *gorm.DB) *Loader {
	return &Loader{db: db}
}

// LoadStudent fetches one student and maps them into the tutoring context.
// Malformed skills or goals JSON is dropped rather than failing the turn.
func (l *Loader) LoadStudent(ctx context.Context, studentID uint) (*tutor.StudentContext, error) {
	var record Student
	if err := l.db.WithContext(ctx).First(&record, studentID).Error; err != nil {
		return nil, fmt.Errorf("failed to load student %d: %w", studentID, err)
	}
	studentCtx := &tutor.StudentContext{
		Name:           record.Name,
		Proficiency:    record.Proficiency,
		NativeLanguage: record.NativeLanguage,
		TargetScore:    record.TargetScore,
	}
	if len(record.Skills) > 0 {
		var skills map[string]int
		if err := json.Unmarshal(record.Skills, &skills); err == nil {
			studentCtx.Skills = skills
		}
	}
	if len(record.LearningGoals) > 0 {
		var goals []string
		if err := json.Unmarshal(record.LearningGoals, &goals); err == nil {
			studentCtx.LearningGoals = goals
		}
	}
	return studentCtx, nil
}
