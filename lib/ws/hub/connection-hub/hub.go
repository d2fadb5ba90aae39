package connectionhub

import (
	wsmodels "esign-backend/models/ws"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	AddClient(userID string, conn *websocket.Conn)
	DeleteClient(userID string, conn *websocket.Conn)
	// Publish рассылает событие всем подключенным клиентам
	Publish(event string, data interface{})
	IsConnected(userID string) bool
}

var Instance Provider

func Init() {
	Instance = NewInstance()
}

func NewInstance() Provider {
	return &impl{
		clients: map[string]map[*websocket.Conn]clientSession{},
	}
}

// у пользователя может быть несколько открытых вкладок, каждая со своей сессией
type impl struct {
	mu      sync.RWMutex
	clients map[string]map[*websocket.Conn]clientSession //map[userID]map[conn]
}

func (i *impl) DeleteClient(userID string, conn *websocket.Conn) {
	i.mu.Lock()
	defer i.mu.Unlock()
	sess, ok := i.clients[userID][conn]
	if !ok {
		return
	}
	delete(i.clients[userID], conn)
	if len(i.clients[userID]) == 0 {
		delete(i.clients, userID)
	}
	sess.stop()
}

func (i *impl) AddClient(userID string, conn *websocket.Conn) {
	i.mu.Lock()
	defer i.mu.Unlock()
	sessions, ok := i.clients[userID]
	if !ok {
		sessions = map[*websocket.Conn]clientSession{}
		i.clients[userID] = sessions
	}
	if oldSess, ok := sessions[conn]; ok {
		oldSess.stop()
	}
	sessions[conn] = newSession(conn)
}

func (i *impl) Publish(event string, data interface{}) {
	msg := wsmodels.ServerMessage{
		Event: event,
		Time:  time.Now().Format("02.01.2006 15:04:05"),
		Data:  data,
	}
	i.mu.RLock()
	defer i.mu.RUnlock()
	for userID, sessions := range i.clients {
		for _, sess := range sessions {
			if !sess.trySend(msg) {
				log.WithField("user_id", userID).
					WithField("event", event).
					Warn("буфер отправки переполнен, событие пропущено")
			}
		}
	}
}

func (i *impl) IsConnected(userID string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	for conn := range i.clients[userID] {
		if conn != nil && conn.Conn != nil {
			return true
		}
	}
	return false
}
