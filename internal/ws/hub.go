package ws

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/proposalflow/backend/internal/logger"
)

// События, которые рассылаются подписчикам предложения.
const (
	EventProposalUpdated   = "proposal_updated"
	EventSectionUpdated    = "section_updated"
	EventCollaboratorAdded = "collaborator_added"
	EventActivityAppended  = "activity_appended"
	EventProposalDeleted   = "proposal_deleted"
)

// Hub управляет WebSocket-подписками на предложения: клиент подключается к
// конкретному предложению и получает события о его изменениях в реальном
// времени, пока другие участники редактируют документ.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
}

type message struct {
	proposalID uuid.UUID
	payload    []byte
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 32),
	}
}

// Run запускает главный цикл хаба.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.proposalID, msg.payload)
		}
	}
}

// Register добавляет подписчика.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister удаляет подписчика.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastToProposal отправляет событие всем подписчикам предложения.
// Сообщение следует контракту WebSocket API: "type" — имя события,
// "data" — полезная нагрузка.
func (h *Hub) BroadcastToProposal(proposalID uuid.UUID, event string, data any) error {
	payload := map[string]any{
		"type": event,
		"data": data,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}

	h.broadcast <- message{proposalID: proposalID, payload: raw}
	return nil
}

// Subscribers возвращает число активных подписчиков предложения.
func (h *Hub) Subscribers(proposalID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[proposalID])
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.proposalID]; !ok {
		h.clients[client.proposalID] = make(map[*Client]struct{})
	}
	h.clients[client.proposalID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.proposalID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, client.proposalID)
		}
	}
}

func (h *Hub) send(proposalID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[proposalID] {
		select {
		case client.send <- payload:
		default:
			// Медленный клиент: буфер переполнен, соединение закрывается.
			go func(c *Client) {
				defer func() {
					if r := recover(); r != nil {
						logger.Log.Errorf("ws: panic при закрытии клиента: %v", r)
					}
				}()
				c.Close()
			}(client)
		}
	}
}
