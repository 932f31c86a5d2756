package clients

import (
	"sync"

	"github.com/google/uuid"
)

const (
	// DefaultSendBufferSize is the number of serialized messages a client may
	// fall behind before messages are dropped.
	DefaultSendBufferSize = 64
)

// Client represents a connected event stream of a player
type Client struct {
	ID       string
	PlayerID string
	send     chan []byte
}

// Messages returns the client's outgoing messages. The channel is closed when
// the client is removed.
func (c *Client) Messages() <-chan []byte {
	return c.send
}

// ClientManager manages connected clients
type ClientManager struct {
	clients        map[string]*Client
	clientsLock    sync.RWMutex
	sendBufferSize int
}

// NewClientManager creates a new ClientManager
func NewClientManager(sendBufferSize int) *ClientManager {
	if sendBufferSize <= 0 {
		sendBufferSize = DefaultSendBufferSize
	}
	return &ClientManager{
		clients:        make(map[string]*Client),
		sendBufferSize: sendBufferSize,
	}
}

// AddClient registers a new client for a player. A player may have several.
func (cm *ClientManager) AddClient(playerID string) *Client {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()
	client := &Client{
		ID:       uuid.NewString(),
		PlayerID: playerID,
		send:     make(chan []byte, cm.sendBufferSize),
	}
	cm.clients[client.ID] = client
	return client
}

// RemoveClient removes a client from the manager and closes its messages.
func (cm *ClientManager) RemoveClient(clientID string) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	if client, exists := cm.clients[clientID]; exists {
		delete(cm.clients, clientID)
		close(client.send)
	}
}

// GetClients returns a list of all connected clients
func (cm *ClientManager) GetClients() []*Client {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	clients := make([]*Client, 0, len(cm.clients))
	for _, client := range cm.clients {
		clients = append(clients, client)
	}
	return clients
}

func (cm *ClientManager) Exists(clientID string) bool {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	_, ok := cm.clients[clientID]
	return ok
}

// SendToPlayer queues a message for every client of the player without
// blocking. It returns the number of clients that accepted it.
func (cm *ClientManager) SendToPlayer(playerID string, b []byte) (sent int, dropped int) {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	for _, client := range cm.clients {
		if client.PlayerID != playerID {
			continue
		}
		select {
		case client.send <- b:
			sent++
		default:
			dropped++
		}
	}
	return sent, dropped
}
