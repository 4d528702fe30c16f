package main

import "sync"

type ClientManager struct {
	sync.RWMutex
	clients map[string]*Client
}

func NewClientManager() *ClientManager {
	return &ClientManager{clients: map[string]*Client{}}
}

func (cm *ClientManager) Add(c *Client) {
	cm.Lock()
	cm.clients[c.ID] = c
	cm.Unlock()
}

func (cm *ClientManager) Remove(id string) {
	cm.Lock()
	delete(cm.clients, id)
	cm.Unlock()
}

func (cm *ClientManager) Get(id string) *Client {
	cm.RLock()
	defer cm.RUnlock()
	return cm.clients[id]
}

// Sends a message to all connected clients.
func (cm *ClientManager) Broadcast(msg serverMessage) {
	cm.RLock()
	defer cm.RUnlock()
	for _, c := range cm.clients {
		c.Send(msg)
	}
}

// Returns the number of connected clients.
func (cm *ClientManager) NumberOfClientsConnected() int {
	cm.RLock()
	defer cm.RUnlock()
	return len(cm.clients)
}
