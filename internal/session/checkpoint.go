package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"rox-tutor/internal/tutor"
)

// TurnCheckpoint is the durable record of one completed tutoring turn. The
// Redis session is the live working copy; this table is the audit trail that
// survives session expiry.
type TurnCheckpoint struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	SessionID    string         `gorm:"index;size:64" json:"sessionId"`
	StudentID    uint           `gorm:"index" json:"studentId"`
	TurnIndex    int            `json:"turnIndex"`
	Stage        string         `gorm:"size:32" json:"stage"`
	Utterance    string         `json:"utterance"`
	ResponseText string         `json:"responseText"`
	State        datatypes.JSON `json:"state"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// GormCheckpointer appends checkpoints to the relational store.
type GormCheckpointer struct {
	db *gorm.DB
}

func NewGormCheckpointer(db *gorm.DB) *GormCheckpointer {
	return &GormCheckpointer{db: db}
}

// Append records a finished turn. Turn index is derived from what is already
// on record for the session, so the log stays ordered even after the live
// session has expired and restarted.
func (c *GormCheckpointer) Append(ctx context.Context, state *tutor.State, out *tutor.TurnOutput) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint state: %w", err)
	}
	var count int64
	if err := c.db.WithContext(ctx).Model(&TurnCheckpoint{}).
		Where("session_id = ?", state.SessionID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count checkpoints: %w", err)
	}
	checkpoint := TurnCheckpoint{
		SessionID:    state.SessionID,
		StudentID:    state.StudentID,
		TurnIndex:    int(count),
		Stage:        state.Stage,
		Utterance:    state.Utterance,
		ResponseText: out.TextForTTS,
		State:        datatypes.JSON(raw),
	}
	if err := c.db.WithContext(ctx).Create(&checkpoint).Error; err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

// History returns a session's checkpoints in turn order.
func (c *GormCheckpointer) History(ctx context.Context, sessionID string) ([]TurnCheckpoint, error) {
	var checkpoints []TurnCheckpoint
	if err := c.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("turn_index asc").
		Find(&checkpoints).Error; err != nil {
		return nil, fmt.Errorf("failed to load checkpoints: %w", err)
	}
	return checkpoints, nil
}
