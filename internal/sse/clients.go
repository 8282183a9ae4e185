// Package sse fans reload notifications out to browsers over server-sent
// events. Each client subscribes to one topic, a content file name, or to
// every topic.
package sse

import (
	"fmt"
	"net/http"
	"slices"
	"sync"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/rs/zerolog"
)

var sseLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	sseLogger = l
}

type Client struct {
	Msg chan string
	// Topic is empty for clients that want every event.
	Topic model.ContentName
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

func (s *SSEClients) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Broadcast sends msg to the topic's subscribers without blocking; a client
// that is not ready misses the event.
func (s *SSEClients) Broadcast(topic model.ContentName, msg string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for client := range s.clients {
		if client.Topic == "" || client.Topic == topic {
			select {
			case client.Msg <- msg:
			default:
			}
		}
	}
}

// ServeHTTP streams events for the "topic" query parameter until the client
// goes away.
func (s *SSEClients) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	topic := model.ContentName(r.URL.Query().Get("topic"))
	if topic != "" && !slices.Contains(model.ContentNames, topic) {
		http.Error(w, "Unknown topic", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, "text/event-stream")
	w.Header().Set(config.HCacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: connected\ndata: SSE connection established\n\n")
	flusher.Flush()

	client := &Client{Msg: make(chan string, 1), Topic: topic}
	s.Add(client)
	sseLogger.Debug().Str("topic", string(topic)).Msg("SSE client connected")

	defer func() {
		s.Delete(client)
		sseLogger.Debug().Str("topic", string(topic)).Msg("SSE client disconnected")
	}()

	notify := r.Context().Done()
	for {
		select {
		case msg := <-client.Msg:
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		case <-notify:
			return
		}
	}
}
