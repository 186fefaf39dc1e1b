// Package sse provides Server-Sent Events client management for
// real-time recipe updates.
package sse

import (
	"sync"

	"github.com/scsmith60/messhall/internal/model"
)

// Client is one connected event stream, scoped to a single recipe.
type Client struct {
	Msg      chan string
	RecipeID model.RecipeID
}

type SSEClients struct {
	clients map[*Client]bool
	mu      sync.RWMutex
}

func NewSSEClients() *SSEClients {
	return &SSEClients{
		clients: make(map[*Client]bool),
	}
}

func (s *SSEClients) Add(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client] = true
}

func (s *SSEClients) Delete(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, client)
	close(client.Msg)
}

// Broadcast sends msg to every client watching recipeID. Slow clients
// are skipped rather than blocked on.
func (s *SSEClients) Broadcast(recipeID model.RecipeID, msg string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for client := range s.clients {
		if client.RecipeID == recipeID {
			select {
			case client.Msg <- msg:
			default:
			}
		}
	}
}
