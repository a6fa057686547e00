package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"rox-tutor/internal/auth"
	"rox-tutor/internal/config"
	"rox-tutor/internal/db"
	"rox-tutor/internal/student"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type LoginResponse struct {
	Token     string `json:"token"`
	StudentID uint   `json:"studentId"`
	Username  string `json:"username"`
	Role      string `json:"role"`
}

func LoginHandler(cfg *config.Config, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		// If no students exist, indicate need for setup
		var count int64
		if err := db.DB.Model(&student.Student{}).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}
		if count == 0 {
			c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Initial setup required", "need_setup": true}})
			return
		}
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		var s student.Student
		if err := db.DB.Where("username = ?", req.Username).First(&s).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Invalid username or password"}})
			return
		}
		if err := student.CheckPassword(s.PasswordHash, req.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Invalid username or password"}})
			return
		}
		token, err := auth.GenerateJWT(cfg.Server.JWTSecret, s.ID, s.Username, string(s.Role), 7*24*time.Hour)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to generate token"}})
			return
		}
		_ = auth.SetSession(rdb, s.ID, token, 7*24*time.Hour)
		c.JSON(http.StatusOK, LoginResponse{
			Token:     token,
			StudentID: s.ID,
			Username:  s.Username,
			Role:      string(s.Role),
		})
	}
}

func LogoutHandler(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		studentId, exists := c.Get("studentId")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Not authenticated"}})
			return
		}
		_ = auth.DeleteSession(rdb, studentId.(uint))
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		studentId, _ := c.Get("studentId")
		var s student.Student
		if err := db.DB.First(&s, studentId.(uint)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Student not found"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":        s.ID,
			"username":  s.Username,
			"role":      s.Role,
			"name":      s.Name,
			"createdAt": s.CreatedAt,
		})
	}
}

// OnlineStudentCountHandler returns the number of unique online students.
func OnlineStudentCountHandler(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := auth.OnlineStudentCount(rdb)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to count online students"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"online": count})
	}
}
