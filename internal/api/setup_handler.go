package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rox-tutor/internal/db"
	"rox-tutor/internal/student"
)

type SetupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SetupHandler creates the first admin account. It only works while the
// student table is empty; after that the endpoint is dead.
func SetupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var count int64
		if err := db.DB.Model(&student.Student{}).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}
		if count > 0 {
			c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Setup already completed"}})
			return
		}
		var req SetupRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || len(req.Password) < 8 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Username and password (min 8 chars) required"}})
			return
		}
		hash, err := student.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to hash password"}})
			return
		}
		admin := student.Student{
			Username:     req.Username,
			PasswordHash: hash,
			Role:         student.RoleAdmin,
			Name:         req.Name,
		}
		if err := db.DB.Create(&admin).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to create admin"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": admin.ID, "username": admin.Username, "role": admin.Role})
	}
}
