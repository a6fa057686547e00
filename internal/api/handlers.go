package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"rox-tutor/internal/config"
	"rox-tutor/internal/session"
	"rox-tutor/internal/tutor"
)

// TurnRunner is the tutoring engine surface the handlers need.
type TurnRunner interface {
	RunTurn(ctx context.Context, input tutor.TurnInput) *tutor.TurnOutput
}

// KnowledgeCounter reports stored record counts, for the admin stats view.
type KnowledgeCounter interface {
	Count(ctx context.Context, category string) (uint64, error)
}

// Deps carries the wired collaborators into the handlers.
type Deps struct {
	Engine      TurnRunner
	Sessions    *session.RedisStore
	Checkpoints *session.GormCheckpointer
	Knowledge   KnowledgeCounter
}

// GET /health
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// GET /config
func configHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only return non-sensitive config fields
		c.JSON(http.StatusOK, gin.H{
			"server": gin.H{
				"host":    cfg.Server.Host,
				"port":    cfg.Server.Port,
				"subpath": cfg.Server.Subpath,
			},
			"gemini": gin.H{
				"model":           cfg.Gemini.Model,
				"embedding_model": cfg.Gemini.EmbeddingModel,
			},
			"qdrant": gin.H{
				"collection": cfg.Qdrant.Collection,
			},
		})
	}
}
