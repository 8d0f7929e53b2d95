package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-presensi-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-presensi-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/sse"
)

const keepaliveInterval = 30 * time.Second

type EventHandler interface {
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type eventHandlerImpl struct {
	jwtService jwt.Service
	directory  user.Directory
	hub        *sse.Hub
}

func NewEventHandler(jwtService jwt.Service, directory user.Directory, hub *sse.Hub) EventHandler {
	return &eventHandlerImpl{
		jwtService: jwtService,
		directory:  directory,
		hub:        hub,
	}
}

type sseTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// GetSSEToken generates a short-lived token for SSE connections
func (h *eventHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	token, expiresIn, err := h.jwtService.GenerateSSEToken(middleware.UserID(r.Context()))
	if err != nil {
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, sseTokenResponse{Token: token, ExpiresIn: expiresIn})
}

// Stream delivers events addressed to the caller and to each role they hold.
func (h *eventHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	roles, err := h.directory.RolesOf(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	topics := []string{sse.UserTopic(userID)}
	for _, role := range roles {
		topics = append(topics, sse.RoleTopic(string(role)))
	}

	events, cleanup := h.hub.Subscribe(topics...)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"user_id\":%q}\n\n", userID)
	flusher.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
