package realtime

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Update types pushed to competition subscribers
const (
	UpdateRatingSubmitted  = "rating_submitted"
	UpdateEntrySubmitted   = "entry_submitted"
	UpdateCompetitionEnded = "competition_ended"
)

var (
	competitionClients = make(map[string]map[*websocket.Conn]bool) // Map of competition ID to connected clients
	broadcast          = make(chan CompetitionUpdate)              // Broadcast channel for updates
	mutex              sync.Mutex                                  // Mutex to protect competitionClients map
	started            sync.Once
)

// CompetitionUpdate represents an event within a competition pushed to its subscribers
type CompetitionUpdate struct {
	CompetitionID string      `json:"competition_id"`
	UpdateType    string      `json:"update_type"`
	Payload       interface{} `json:"payload,omitempty"`
}

// RegisterClient adds a WebSocket client to a specific competition
func RegisterClient(competitionID string, conn *websocket.Conn) {
	mutex.Lock()
	if competitionClients[competitionID] == nil {
		competitionClients[competitionID] = make(map[*websocket.Conn]bool)
	}
	competitionClients[competitionID][conn] = true
	mutex.Unlock()
}

// UnregisterClient removes a WebSocket client from a specific competition
func UnregisterClient(competitionID string, conn *websocket.Conn) {
	mutex.Lock()
	if clients, exists := competitionClients[competitionID]; exists {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(competitionClients, competitionID)
		}
	}
	mutex.Unlock()
}

// BroadcastCompetitionUpdate sends an update to all clients subscribed to the
// competition. A no-op when nobody is listening.
func BroadcastCompetitionUpdate(update CompetitionUpdate) {
	mutex.Lock()
	listening := len(competitionClients[update.CompetitionID]) > 0
	mutex.Unlock()
	if !listening {
		return
	}
	broadcast <- update
}

// StartBroadcaster launches the broadcast loop once
func StartBroadcaster() {
	started.Do(func() {
		go handleBroadcast()
	})
}

func handleBroadcast() {
	for {
		update := <-broadcast
		mutex.Lock()
		if clients, exists := competitionClients[update.CompetitionID]; exists {
			for client := range clients {
				if err := client.WriteJSON(update); err != nil {
					log.Printf("WebSocket write error: %v", err)
					client.Close()
					delete(clients, client)
				}
			}
		}
		mutex.Unlock()
	}
}
