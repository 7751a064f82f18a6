package eventloop

import (
	"context"
	"fmt"
	"log"
	"sync"

	"snapshot/src/hotkey"
	"snapshot/src/messages"
	"snapshot/src/router"
	"snapshot/src/session"
)

// Handler is the capture coordinator as driven by the loop.
type Handler interface {
	StartCapture() error
	CancelKey()
	DispatchPlatform(ev session.MouseEvent)
	ToolClicked(display int)
	EndCapture()
}

// Loop is the single goroutine that owns the coordinator. Every other
// goroutine reaches it through the router.
type Loop struct {
	router  *router.Router
	inbox   <-chan messages.MessageEnvelope
	handler Handler

	mu       sync.Mutex
	deferred []func()
	wake     chan struct{}

	clearClipboard func() error
}

// New registers the loop endpoint with r.
func New(r *router.Router) (*Loop, error) {
	inbox, err := r.Register(messages.EndpointLoop, 256)
	if err != nil {
		return nil, fmt.Errorf("register loop: %w", err)
	}
	return &Loop{
		router: r,
		inbox:  inbox,
		wake:   make(chan struct{}, 1),
	}, nil
}

// SetHandler sets the coordinator. It must be called before Run.
func (l *Loop) SetHandler(h Handler) { l.handler = h }

// SetClipboardClearer sets the tray's "Clear Clipboard" action.
func (l *Loop) SetClipboardClearer(fn func() error) { l.clearClipboard = fn }

// Post queues fn to run on the loop goroutine after the current event.
// Queued work runs in FIFO order. Safe from any goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.deferred = append(l.deferred, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) runDeferred() {
	for {
		l.mu.Lock()
		if len(l.deferred) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.deferred[0]
		l.deferred = l.deferred[1:]
		l.mu.Unlock()
		fn()
	}
}

// StartInput wires the global listener into the loop: the capture combo,
// the capture-scoped cancel key and the mouse monitor.
func (l *Loop) StartInput(in *hotkey.Listener, captureCombo, cancelKey string) error {
	if err := in.Register(captureCombo, func() {
		l.send(messages.EndpointInput, messages.CaptureRequested{Source: "hotkey"})
	}); err != nil {
		return fmt.Errorf("capture hotkey: %w", err)
	}
	if err := in.OnCancel(cancelKey, func() {
		l.send(messages.EndpointInput, messages.CancelKey{})
	}); err != nil {
		return fmt.Errorf("cancel key: %w", err)
	}
	in.OnMouse(func(ev session.MouseEvent) {
		l.send(messages.EndpointInput, messages.Mouse{Event: ev})
	})
	in.Start()
	return nil
}

func (l *Loop) send(from string, m messages.Message) {
	if err := l.router.SendToLoop(from, m); err != nil {
		log.Printf("Loop: dropped %s: %v", m.Type(), err)
	}
}

// Run processes messages until ctx is cancelled or a Quit arrives.
func (l *Loop) Run(ctx context.Context) error {
	if l.handler == nil {
		return fmt.Errorf("event loop has no handler")
	}
	defer l.handler.EndCapture()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
			l.runDeferred()
		case env, ok := <-l.inbox:
			if !ok {
				return nil
			}
			if quit := l.handle(env.Message); quit {
				log.Printf("Loop: quit requested by %s", env.From)
				return nil
			}
			l.runDeferred()
		}
	}
}

func (l *Loop) handle(m messages.Message) bool {
	switch msg := m.(type) {
	case messages.CaptureRequested:
		log.Printf("Loop: capture requested from %s", msg.Source)
		if err := l.handler.StartCapture(); err != nil {
			log.Printf("Loop: capture failed to start: %v", err)
		}
	case messages.CancelKey:
		l.handler.CancelKey()
	case messages.Mouse:
		l.handler.DispatchPlatform(msg.Event)
	case messages.ToolClicked:
		l.handler.ToolClicked(msg.Display)
	case messages.ClearClipboard:
		if l.clearClipboard != nil {
			if err := l.clearClipboard(); err != nil {
				log.Printf("Loop: clear clipboard: %v", err)
			}
		}
	case messages.Quit:
		return true
	default:
		log.Printf("Loop: ignoring %s", m.Type())
	}
	return false
}
