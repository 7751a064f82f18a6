package router

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"snapshot/src/messages"
)

// ChannelInfo holds information about an endpoint channel
type ChannelInfo struct {
	Channel  chan messages.MessageEnvelope
	Endpoint string
	Active   bool
}

// Router handles message routing between endpoints: the input listener,
// the tray, overlay callbacks, the event loop and per-display sessions.
type Router struct {
	channels    map[string]*ChannelInfo
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	logMessages bool
	quiet       map[string]bool
	sendTimeout time.Duration
}

// NewRouter creates a new message router
func NewRouter() *Router {
	ctx, cancel := context.WithCancel(context.Background())
	return &Router{
		channels:    make(map[string]*ChannelInfo),
		ctx:         ctx,
		cancel:      cancel,
		logMessages: true,
		quiet:       map[string]bool{messages.TypeMouse: true},
		sendTimeout: 5 * time.Second,
	}
}

// Register registers an endpoint with the router
func (r *Router) Register(endpoint string, bufferSize int) (<-chan messages.MessageEnvelope, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.channels[endpoint]; exists {
		return nil, fmt.Errorf("endpoint %s already registered", endpoint)
	}

	ch := make(chan messages.MessageEnvelope, bufferSize)
	r.channels[endpoint] = &ChannelInfo{
		Channel:  ch,
		Endpoint: endpoint,
		Active:   true,
	}

	log.Printf("Router: Registered %s with buffer size %d", endpoint, bufferSize)
	return ch, nil
}

// Unregister removes an endpoint from the router
func (r *Router) Unregister(endpoint string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if info, exists := r.channels[endpoint]; exists {
		info.Active = false
		close(info.Channel)
		delete(r.channels, endpoint)
		log.Printf("Router: Unregistered %s", endpoint)
	}
}

func (r *Router) logf(envelope messages.MessageEnvelope, format string, args ...any) {
	if !r.logMessages || r.quiet[envelope.Message.Type()] {
		return
	}
	log.Printf(format, args...)
}

// Send sends a message to a specific endpoint
func (r *Router) Send(envelope messages.MessageEnvelope) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	r.logf(envelope, "Router: %s -> %s: %s", envelope.From, envelope.To, envelope.Message.Type())

	if envelope.To == messages.Broadcast {
		return r.broadcastMessage(envelope)
	}

	info, exists := r.channels[envelope.To]
	if !exists {
		return fmt.Errorf("endpoint %s not found", envelope.To)
	}

	if !info.Active {
		return fmt.Errorf("endpoint %s is not active", envelope.To)
	}

	select {
	case info.Channel <- envelope:
		return nil
	case <-time.After(r.sendTimeout):
		return fmt.Errorf("timeout sending message to %s", envelope.To)
	case <-r.ctx.Done():
		return fmt.Errorf("router is shutting down")
	}
}

// Broadcast sends a message to all registered endpoints except the sender
func (r *Router) Broadcast(envelope messages.MessageEnvelope) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	r.logf(envelope, "Router: Broadcasting %s from %s", envelope.Message.Type(), envelope.From)

	r.broadcastMessage(envelope)
}

// BroadcastTo sends a message to the listed endpoints except the sender.
// Unknown endpoints are skipped.
func (r *Router) BroadcastTo(envelope messages.MessageEnvelope, endpoints []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	r.logf(envelope, "Router: Broadcasting %s from %s to %d endpoints", envelope.Message.Type(), envelope.From, len(endpoints))

	for _, endpoint := range endpoints {
		info, ok := r.channels[endpoint]
		if !ok || !info.Active || endpoint == envelope.From {
			continue
		}
		r.deliver(info, envelope)
	}
}

// broadcastMessage sends a message to all active endpoints (internal helper)
func (r *Router) broadcastMessage(envelope messages.MessageEnvelope) error {
	var errors []string

	for endpoint, info := range r.channels {
		if !info.Active || endpoint == envelope.From {
			continue
		}
		if err := r.deliver(info, envelope); err != nil {
			errors = append(errors, err.Error())
		}
	}

	if len(errors) > 0 {
		log.Printf("Router: Broadcast errors: %v", errors)
	}

	return nil
}

func (r *Router) deliver(info *ChannelInfo, envelope messages.MessageEnvelope) error {
	envCopy := messages.MessageEnvelope{
		From:    envelope.From,
		To:      info.Endpoint,
		Message: envelope.Message,
	}

	select {
	case info.Channel <- envCopy:
		return nil
	case <-time.After(1 * time.Second): // Shorter timeout for broadcast
		return fmt.Errorf("timeout sending to %s", info.Endpoint)
	case <-r.ctx.Done():
		return fmt.Errorf("router is shutting down")
	}
}

// SendToLoop is a convenience method for sending messages to the event loop
func (r *Router) SendToLoop(from string, message messages.Message) error {
	return r.Send(messages.MessageEnvelope{
		From:    from,
		To:      messages.EndpointLoop,
		Message: message,
	})
}

// ActiveEndpoints returns a list of active endpoint names
func (r *Router) ActiveEndpoints() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []string
	for endpoint, info := range r.channels {
		if info.Active {
			active = append(active, endpoint)
		}
	}
	return active
}

// ChannelStats returns the number of queued messages per endpoint
func (r *Router) ChannelStats() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := make(map[string]int)
	for endpoint, info := range r.channels {
		if info.Active {
			stats[endpoint] = len(info.Channel)
		}
	}
	return stats
}

// SetMessageLogging enables or disables message logging
func (r *Router) SetMessageLogging(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logMessages = enabled
}

// Shutdown closes every endpoint channel
func (r *Router) Shutdown() {
	log.Printf("Router: Shutting down...")

	r.cancel()

	r.mu.Lock()
	defer r.mu.Unlock()

	for endpoint, info := range r.channels {
		if info.Active {
			info.Active = false
			close(info.Channel)
			log.Printf("Router: Closed channel for %s", endpoint)
		}
	}

	r.channels = make(map[string]*ChannelInfo)

	log.Printf("Router: Shutdown complete")
}

// IsHealthy returns true if the router is functioning properly
func (r *Router) IsHealthy() bool {
	select {
	case <-r.ctx.Done():
		return false
	default:
		return true
	}
}

// WaitForMessage waits for a specific message type from a channel with timeout
func WaitForMessage(ch <-chan messages.MessageEnvelope, messageType string, timeout time.Duration) (messages.MessageEnvelope, error) {
	deadline := time.After(timeout)

	for {
		select {
		case envelope, ok := <-ch:
			if !ok {
				return messages.MessageEnvelope{}, fmt.Errorf("channel closed waiting for message type %s", messageType)
			}
			if envelope.Message.Type() == messageType {
				return envelope, nil
			}
		case <-deadline:
			return messages.MessageEnvelope{}, fmt.Errorf("timeout waiting for message type %s", messageType)
		}
	}
}
