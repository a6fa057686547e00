package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"rox-tutor/internal/auth"
	"rox-tutor/internal/config"
	"rox-tutor/internal/tutor"
)

// WSTurnRequest is one turn sent over the tutoring socket.
type WSTurnRequest struct {
	SessionID     string            `json:"session_id"`
	Stage         string            `json:"stage"`
	Utterance     string            `json:"utterance"`
	SubmittedWork string            `json:"submitted_work"`
	TaskContext   map[string]string `json:"task_context"`
}

// WSTurnResponse wraps the turn output with an event marker so the client
// can tell turns apart from errors on the same socket.
type WSTurnResponse struct {
	Event  string            `json:"event"`
	Output *tutor.TurnOutput `json:"output,omitempty"`
	Error  string            `json:"error,omitempty"`
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocket connection wrapper with mutex for thread-safe writes
type safeWSConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *safeWSConn) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

func (s *safeWSConn) ReadMessage() (int, []byte, error) {
	return s.conn.ReadMessage()
}

func (s *safeWSConn) Close() error {
	return s.conn.Close()
}

// WSTutorHandler runs tutoring turns over one long-lived socket. Each client
// message is a full turn request; each reply is the complete turn output.
func WSTutorHandler(cfg *config.Config, deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing JWT"})
			return
		}
		token = strings.TrimPrefix(token, "Bearer ")
		claims, err := auth.ParseJWT(cfg.Server.JWTSecret, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid JWT"})
			return
		}

		rawConn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("WebSocket upgrade failed:", err)
			return
		}
		conn := &safeWSConn{conn: rawConn}
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var req WSTurnRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				conn.WriteJSON(WSTurnResponse{Event: "error", Error: "invalid JSON"})
				continue
			}
			if req.SessionID == "" {
				conn.WriteJSON(WSTurnResponse{Event: "error", Error: "session_id required"})
				continue
			}
			out := deps.Engine.RunTurn(c.Request.Context(), tutor.TurnInput{
				SessionID:     req.SessionID,
				StudentID:     claims.StudentID,
				Stage:         req.Stage,
				Utterance:     req.Utterance,
				SubmittedWork: req.SubmittedWork,
				TaskContext:   req.TaskContext,
			})
			if err := conn.WriteJSON(WSTurnResponse{Event: "turn", Output: out}); err != nil {
				log.Printf("WS write failed for session %s: %v", req.SessionID, err)
				return
			}
		}
	}
}
