package realtime

import (
	"fmt"
	"sync"
)

// ChannelName returns the private broadcast channel for a conversation.
func ChannelName(conversationID string) string {
	return fmt.Sprintf("conversation.%s", conversationID)
}

// Hub tracks websocket sessions and their channel subscriptions, and fans
// events out to every subscriber of a channel. One active Connection per
// user; a newer socket replaces an older one.
type Hub struct {
	mu            sync.RWMutex
	sessions      map[string]*Connection            // sessionID -> connection
	userSessions  map[string]string                 // userID -> sessionID
	channels      map[string]map[string]*Connection // channel -> sessionID -> connection
	subscriptions map[string]map[string]struct{}    // sessionID -> set of channels
}

// NewHub constructs an initialized Hub.
func NewHub() *Hub {
	return &Hub{
		sessions:      make(map[string]*Connection),
		userSessions:  make(map[string]string),
		channels:      make(map[string]map[string]*Connection),
		subscriptions: make(map[string]map[string]struct{}),
	}
}

// Attach registers a connection for the given user and starts its write
// loop. An existing session for the same user is swapped out and closed.
func (h *Hub) Attach(conn *Connection) {
	var previous *Connection

	h.mu.Lock()
	if existingID, ok := h.userSessions[conn.UserID]; ok {
		if existing := h.sessions[existingID]; existing != nil {
			previous = existing
			h.detachLocked(existingID)
		}
	}

	h.sessions[conn.ID] = conn
	h.userSessions[conn.UserID] = conn.ID
	h.subscriptions[conn.ID] = make(map[string]struct{})
	h.mu.Unlock()

	conn.Start()

	if previous != nil {
		previous.Close(4001, "session replaced")
	}
}

// Detach removes a connection if it is still tracked.
func (h *Hub) Detach(conn *Connection) {
	h.mu.Lock()
	h.detachLocked(conn.ID)
	h.mu.Unlock()
}

// Subscribe adds the connection to the channel.
func (h *Hub) Subscribe(channel string, conn *Connection) {
	h.mu.Lock()
	if _, ok := h.sessions[conn.ID]; !ok {
		h.mu.Unlock()
		return
	}

	subs := h.channels[channel]
	if subs == nil {
		subs = make(map[string]*Connection)
		h.channels[channel] = subs
	}
	subs[conn.ID] = conn

	memberships := h.subscriptions[conn.ID]
	if memberships == nil {
		memberships = make(map[string]struct{})
		h.subscriptions[conn.ID] = memberships
	}
	memberships[channel] = struct{}{}
	h.mu.Unlock()
}

// Unsubscribe removes the connection from the channel.
func (h *Hub) Unsubscribe(channel string, conn *Connection) {
	h.mu.Lock()
	h.unsubscribeLocked(channel, conn.ID)
	h.mu.Unlock()
}

// Broadcast writes payload to every subscriber of the channel.
// excludeUserID, when non-empty, skips that user's connection so a sender
// never receives an echo of its own message.
func (h *Hub) Broadcast(channel string, payload []byte, excludeUserID string) int {
	h.mu.RLock()
	subs := h.channels[channel]
	if len(subs) == 0 {
		h.mu.RUnlock()
		return 0
	}

	delivered := 0
	for _, conn := range subs {
		if excludeUserID != "" && conn.UserID == excludeUserID {
			continue
		}
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	h.mu.RUnlock()
	return delivered
}

// Close terminates all tracked connections and clears hub state.
func (h *Hub) Close() {
	h.mu.Lock()
	sessions := make([]*Connection, 0, len(h.sessions))
	for _, conn := range h.sessions {
		sessions = append(sessions, conn)
	}
	h.sessions = make(map[string]*Connection)
	h.userSessions = make(map[string]string)
	h.channels = make(map[string]map[string]*Connection)
	h.subscriptions = make(map[string]map[string]struct{})
	h.mu.Unlock()

	for _, conn := range sessions {
		conn.Close(1001, "hub shutdown")
	}
}

func (h *Hub) detachLocked(sessionID string) {
	conn, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	delete(h.sessions, sessionID)

	if current, ok := h.userSessions[conn.UserID]; ok && current == sessionID {
		delete(h.userSessions, conn.UserID)
	}

	for channel := range h.subscriptions[sessionID] {
		h.unsubscribeLocked(channel, sessionID)
	}
	delete(h.subscriptions, sessionID)
}

func (h *Hub) unsubscribeLocked(channel string, sessionID string) {
	if sessionID == "" {
		return
	}
	subs := h.channels[channel]
	if subs == nil {
		return
	}
	delete(subs, sessionID)
	if len(subs) == 0 {
		delete(h.channels, channel)
	}
	if memberships, ok := h.subscriptions[sessionID]; ok {
		delete(memberships, channel)
		if len(memberships) == 0 {
			delete(h.subscriptions, sessionID)
		}
	}
}
