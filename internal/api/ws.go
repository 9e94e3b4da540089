package api

import (
	"net/http"

	"vamo_backend/internal/notify"
	"vamo_backend/pkg/auth"
	"vamo_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type wsRoutes struct {
	hub *notify.Hub
}

// NewWSRoutes mounts the push channel. The connection only ever receives
// events; anything the client writes is discarded.
func NewWSRoutes(handler *gin.RouterGroup, hub *notify.Hub, a *auth.SessionAuth) {
	r := &wsRoutes{hub: hub}
	h := handler.Group("/ws")
	h.Use(a.SessionMiddleware())
	{
		h.GET("/", r.Connect)
	}
}

func (r *wsRoutes) Connect(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("failed to upgrade connection", zap.Error(err))
		return
	}

	r.hub.Register(userID, conn)
	defer func() {
		r.hub.Unregister(userID, conn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
