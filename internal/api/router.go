package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"rox-tutor/internal/auth"
	"rox-tutor/internal/config"
	"rox-tutor/internal/db"
	"rox-tutor/internal/student"
)

func studentsExist() bool {
	var count int64
	if db.DB == nil {
		return false
	}
	db.DB.Model(&student.Student{}).Count(&count)
	return count > 0
}

func SetupRouter(cfg *config.Config, rdb *redis.Client, deps Deps) *gin.Engine {
	r := gin.Default()
	subpath := cfg.Server.Subpath // e.g. "/rox" or any custom path, always starts with '/'

	r.GET(subpath, func(c *gin.Context) {
		if !studentsExist() {
			c.JSON(http.StatusOK, gin.H{"status": "setup required"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	group := r.Group(subpath)
	{
		group.GET("/health", healthHandler)
		group.GET("/config", configHandler(cfg))

		// Setup: only if no students
		group.POST("/setup", SetupHandler())

		// Auth
		group.POST("/auth/login", LoginHandler(cfg, rdb))
		group.POST("/auth/logout", auth.AuthMiddleware(cfg, rdb, false), LogoutHandler(rdb))
		group.GET("/auth/me", auth.AuthMiddleware(cfg, rdb, false), MeHandler())

		// Admin: students
		group.GET("/students", auth.AuthMiddleware(cfg, rdb, true), ListStudentsHandler())
		group.POST("/students", auth.AuthMiddleware(cfg, rdb, true), CreateStudentHandler())
		group.GET("/students/:id", auth.AuthMiddleware(cfg, rdb, true), GetStudentByIdHandler())
		group.PUT("/students/:id", auth.AuthMiddleware(cfg, rdb, true), UpdateStudentByIdHandler())
		group.DELETE("/students/:id", auth.AuthMiddleware(cfg, rdb, true), DeleteStudentByIdHandler())

		// Student self-service
		group.GET("/students/me", auth.AuthMiddleware(cfg, rdb, false), GetMeHandler())
		group.PUT("/students/me", auth.AuthMiddleware(cfg, rdb, false), UpdateMeHandler())

		// Online students count
		group.GET("/students/online", OnlineStudentCountHandler(rdb))

		// --- Tutoring ---
		group.POST("/interact", auth.AuthMiddleware(cfg, rdb, false), InteractHandler(deps))
		group.GET("/sessions/:id/history", auth.AuthMiddleware(cfg, rdb, false), SessionHistoryHandler(deps))
		group.DELETE("/sessions/:id", auth.AuthMiddleware(cfg, rdb, false), EndSessionHandler(deps))

		// --- Streaming WebSocket endpoint ---
		group.GET("/ws/tutor", WSTutorHandler(cfg, deps))

		// --- Knowledge base stats ---
		group.GET("/knowledge/stats", auth.AuthMiddleware(cfg, rdb, true), KnowledgeStatsHandler(deps))
	}
	return r
}
