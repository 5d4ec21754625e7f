package competitions

import (
	"log"
	"net/http"

	"api/realtime"
	"api/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// CompetitionWebSocket handles WebSocket connections for a specific competition.
// Connected clients receive rating submissions and lifecycle transitions
func CompetitionWebSocket(c *gin.Context) {
	competitionID := c.Param("id")

	// Validate competition ID
	if !services.CompetitionExists(competitionID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "赛事不存在: " + competitionID})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	realtime.RegisterClient(competitionID, conn)
	defer func() {
		realtime.UnregisterClient(competitionID, conn)
		conn.Close()
	}()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}
