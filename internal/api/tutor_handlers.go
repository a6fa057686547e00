package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rox-tutor/internal/knowledge"
	"rox-tutor/internal/tutor"
)

type InteractRequest struct {
	SessionID     string            `json:"session_id"`
	Stage         string            `json:"stage"`
	Utterance     string            `json:"utterance"`
	SubmittedWork string            `json:"submitted_work"`
	TaskContext   map[string]string `json:"task_context"`
}

// POST /interact runs one tutoring turn for the authenticated student.
func InteractHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		studentId, _ := c.Get("studentId")
		var req InteractRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		if req.SessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "session_id required"}})
			return
		}
		out := deps.Engine.RunTurn(c.Request.Context(), tutor.TurnInput{
			SessionID:     req.SessionID,
			StudentID:     studentId.(uint),
			Stage:         req.Stage,
			Utterance:     req.Utterance,
			SubmittedWork: req.SubmittedWork,
			TaskContext:   req.TaskContext,
		})
		c.JSON(http.StatusOK, out)
	}
}

// GET /sessions/:id/history returns the turn checkpoints of a session.
func SessionHistoryHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Checkpoints == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": gin.H{"message": "Checkpoint store unavailable"}})
			return
		}
		checkpoints, err := deps.Checkpoints.History(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to load history"}})
			return
		}
		studentId, _ := c.Get("studentId")
		role, _ := c.Get("role")
		for _, cp := range checkpoints {
			if cp.StudentID != studentId.(uint) && role != "admin" {
				c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Not your session"}})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"turns": checkpoints})
	}
}

// DELETE /sessions/:id drops the live session state.
func EndSessionHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Sessions == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": gin.H{"message": "Session store unavailable"}})
			return
		}
		if err := deps.Sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to end session"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Session ended"})
	}
}

// GET /knowledge/stats (admin) reports record counts per category.
func KnowledgeStatsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Knowledge == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": gin.H{"message": "Knowledge store unavailable"}})
			return
		}
		counts := gin.H{}
		var total uint64
		for _, category := range knowledge.Categories {
			count, err := deps.Knowledge.Count(c.Request.Context(), string(category))
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to count records"}})
				return
			}
			counts[string(category)] = count
			total += count
		}
		c.JSON(http.StatusOK, gin.H{"categories": counts, "total": total})
	}
}
