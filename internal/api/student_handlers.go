package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"rox-tutor/internal/db"
	"rox-tutor/internal/student"
)

type StudentPayload struct {
	Username       string         `json:"username"`
	Password       string         `json:"password"`
	Role           string         `json:"role"`
	Name           string         `json:"name"`
	NativeLanguage string         `json:"native_language"`
	Proficiency    string         `json:"proficiency"`
	TargetScore    int            `json:"target_score"`
	Skills         map[string]int `json:"skills"`
	LearningGoals  []string       `json:"learning_goals"`
}

func studentJSON(s *student.Student) gin.H {
	return gin.H{
		"id":              s.ID,
		"username":        s.Username,
		"role":            s.Role,
		"name":            s.Name,
		"native_language": s.NativeLanguage,
		"proficiency":     s.Proficiency,
		"target_score":    s.TargetScore,
		"skills":          s.Skills,
		"learning_goals":  s.LearningGoals,
		"createdAt":       s.CreatedAt,
	}
}

func applyProfile(s *student.Student, p *StudentPayload) {
	s.Name = p.Name
	s.NativeLanguage = p.NativeLanguage
	s.Proficiency = p.Proficiency
	s.TargetScore = p.TargetScore
	if p.Skills != nil {
		if raw, err := json.Marshal(p.Skills); err == nil {
			s.Skills = datatypes.JSON(raw)
		}
	}
	if p.LearningGoals != nil {
		if raw, err := json.Marshal(p.LearningGoals); err == nil {
			s.LearningGoals = datatypes.JSON(raw)
		}
	}
}

// GET /students (admin)
func ListStudentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var students []student.Student
		if err := db.DB.Find(&students).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}
		out := make([]gin.H, 0, len(students))
		for i := range students {
			out = append(out, studentJSON(&students[i]))
		}
		c.JSON(http.StatusOK, gin.H{"students": out})
	}
}

// POST /students (admin)
func CreateStudentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StudentPayload
		if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || len(req.Password) < 8 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Username and password (min 8 chars) required"}})
			return
		}
		role := student.Role(req.Role)
		if role != student.RoleAdmin {
			role = student.RoleStudent
		}
		hash, err := student.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to hash password"}})
			return
		}
		s := student.Student{
			Username:     req.Username,
			PasswordHash: hash,
			Role:         role,
		}
		applyProfile(&s, &req)
		if err := db.DB.Create(&s).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": gin.H{"message": "Username already exists"}})
			return
		}
		c.JSON(http.StatusOK, studentJSON(&s))
	}
}

func findStudentByParam(c *gin.Context) (*student.Student, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid id"}})
		return nil, false
	}
	var s student.Student
	if err := db.DB.First(&s, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Student not found"}})
		return nil, false
	}
	return &s, true
}

// GET /students/:id (admin)
func GetStudentByIdHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := findStudentByParam(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, studentJSON(s))
	}
}

// PUT /students/:id (admin)
func UpdateStudentByIdHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := findStudentByParam(c)
		if !ok {
			return
		}
		var req StudentPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		applyProfile(s, &req)
		if req.Password != "" {
			if len(req.Password) < 8 {
				c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Password too short"}})
				return
			}
			hash, err := student.HashPassword(req.Password)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to hash password"}})
				return
			}
			s.PasswordHash = hash
		}
		if req.Role != "" {
			role := student.Role(req.Role)
			if role == student.RoleAdmin || role == student.RoleStudent {
				s.Role = role
			}
		}
		if err := db.DB.Save(s).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to update student"}})
			return
		}
		c.JSON(http.StatusOK, studentJSON(s))
	}
}

// DELETE /students/:id (admin)
func DeleteStudentByIdHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := findStudentByParam(c)
		if !ok {
			return
		}
		if err := db.DB.Delete(s).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to delete student"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Student deleted"})
	}
}

// GET /students/me
func GetMeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		studentId, _ := c.Get("studentId")
		var s student.Student
		if err := db.DB.First(&s, studentId.(uint)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Student not found"}})
			return
		}
		c.JSON(http.StatusOK, studentJSON(&s))
	}
}

// PUT /students/me: profile self-service, never role or username
func UpdateMeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		studentId, _ := c.Get("studentId")
		var s student.Student
		if err := db.DB.First(&s, studentId.(uint)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Student not found"}})
			return
		}
		var req StudentPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		applyProfile(&s, &req)
		if req.Password != "" {
			if len(req.Password) < 8 {
				c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Password too short"}})
				return
			}
			hash, err := student.HashPassword(req.Password)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to hash password"}})
				return
			}
			s.PasswordHash = hash
		}
		if err := db.DB.Save(&s).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to update profile"}})
			return
		}
		c.JSON(http.StatusOK, studentJSON(&s))
	}
}
