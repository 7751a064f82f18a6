// Package coordinator owns the single capture across every display.
package coordinator

import (
	"errors"
	"fmt"
	"image"
	"log"
	"sort"
	"strings"

	"snapshot/src/annotation"
	"snapshot/src/commit"
	"snapshot/src/geometry"
	"snapshot/src/inventory"
	"snapshot/src/logutil"
	"snapshot/src/messages"
	"snapshot/src/router"
	"snapshot/src/screenshot"
	"snapshot/src/session"
)

// ErrCaptureFailed wraps every error that aborts StartCapture.
var ErrCaptureFailed = errors.New("capture failed")

// ViewFactory creates the overlay window for one display.
type ViewFactory func(d screenshot.Display) (session.View, error)

// Toggle enables the capture-scoped inputs: the cancel key and the global
// mouse monitor.
type Toggle interface {
	SetCaptureActive(active bool)
}

// Committer runs the commit pipeline.
type Committer interface {
	Commit(img image.Image) (commit.Result, error)
}

// Notifier reports the outcome of a capture to the user.
type Notifier interface {
	Saved(res commit.Result)
	Failed(err error)
}

// Options are the collaborators injected into a Coordinator.
type Options struct {
	Displays  screenshot.Enumerator
	Capture   screenshot.Source
	Windows   inventory.Lister
	Pointer   inventory.Pointer
	Views     ViewFactory
	Queue     session.Queue
	Router    *router.Router
	Toggle    Toggle
	Committer Committer
	Notifier  Notifier
	Style     annotation.Style
}

type entry struct {
	session *session.Session
	inbox   <-chan messages.MessageEnvelope
	name    string
}

// Coordinator starts and ends captures. It is owned by the event loop and
// must only be called from that goroutine.
type Coordinator struct {
	opts       Options
	machine    *session.Machine
	inProgress bool
	entries    []entry
	// active receives down/up/drag until the button is released.
	active *session.Session
	// ref is the primary display height used to flip platform points.
	ref float64
}

// New creates an idle coordinator.
func New(opts Options) *Coordinator {
	if opts.Router == nil {
		opts.Router = router.NewRouter()
	}
	return &Coordinator{opts: opts, machine: session.NewMachine()}
}

// InProgress reports whether a capture is running.
func (c *Coordinator) InProgress() bool { return c.inProgress }

// State returns the shared capture state.
func (c *Coordinator) State() session.State { return c.machine.State() }

// Request asks for a state transition on behalf of a session.
func (c *Coordinator) Request(to session.State) error {
	from := c.machine.State()
	if err := c.machine.Request(to); err != nil {
		return err
	}
	if from != to {
		log.Printf("Coordinator: %s -> %s", from, to)
	}
	return nil
}

// Sessions returns the live sessions in display order.
func (c *Coordinator) Sessions() []*session.Session {
	out := make([]*session.Session, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.session
	}
	return out
}

// StartCapture begins a capture on every display. It is a no-op while a
// capture is already running. Any failure tears the whole capture down.
func (c *Coordinator) StartCapture() error {
	if c.inProgress {
		log.Printf("Coordinator: capture already in progress, ignoring")
		return nil
	}
	c.inProgress = true
	if c.opts.Toggle != nil {
		c.opts.Toggle.SetCaptureActive(true)
	}
	log.Printf("Coordinator: starting capture")

	if err := c.start(); err != nil {
		log.Printf("Coordinator: %v", err)
		c.EndCapture()
		if c.opts.Notifier != nil {
			c.opts.Notifier.Failed(err)
		}
		return err
	}
	return nil
}

func (c *Coordinator) start() error {
	displays, err := c.opts.Displays.Displays()
	if err != nil {
		return fmt.Errorf("%w: displays: %w", ErrCaptureFailed, err)
	}
	if len(displays) == 0 {
		return fmt.Errorf("%w: %w", ErrCaptureFailed, screenshot.ErrNoDisplays)
	}
	ref := referenceHeight(displays)
	c.ref = ref

	inv, err := inventory.Take(c.opts.Windows, ref)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}
	raw, err := c.opts.Pointer.Location()
	if err != nil {
		return fmt.Errorf("%w: pointer: %w", ErrCaptureFailed, err)
	}
	pointer := geometry.PointToScreenSpace(raw, ref)

	if !c.opts.Router.IsHealthy() {
		return fmt.Errorf("%w: router is shut down", ErrCaptureFailed)
	}
	c.reclaimEndpoints()

	if err := c.machine.Request(session.Highlight); err != nil {
		return err
	}

	for _, d := range displays {
		snap, err := c.opts.Capture.Capture(d)
		if err != nil {
			return fmt.Errorf("%w: display %d: %w", ErrCaptureFailed, d.ID, err)
		}
		view, err := c.opts.Views(d)
		if err != nil {
			return fmt.Errorf("%w: overlay %d: %w", ErrCaptureFailed, d.ID, err)
		}
		name := messages.DisplayEndpoint(d.ID)
		inbox, err := c.opts.Router.Register(name, 8)
		if err != nil {
			view.Close()
			return fmt.Errorf("%w: %w", ErrCaptureFailed, err)
		}
		s := session.New(session.Config{
			Display:    d,
			Snapshot:   snap,
			Inventory:  inv,
			View:       view,
			Controller: c,
			Queue:      c.opts.Queue,
			Style:      c.opts.Style,
		})
		c.entries = append(c.entries, entry{session: s, inbox: inbox, name: name})
	}

	log.Printf("Coordinator: %d sessions, %d windows", len(c.entries), inv.Len())
	for _, e := range c.entries {
		e.session.Start(pointer)
		c.deliverHandOffs()
	}
	return nil
}

// referenceHeight is the height of the display at the screen-space origin.
func referenceHeight(displays []screenshot.Display) float64 {
	bounds := make([]image.Rectangle, len(displays))
	for i, d := range displays {
		bounds[i] = d.Bounds
	}
	return screenshot.ReferenceHeight(bounds)
}

// EndCapture tears down every session and returns to Idle. It is safe to
// call repeatedly and from inside a session's own handlers.
func (c *Coordinator) EndCapture() {
	if !c.inProgress {
		return
	}
	c.inProgress = false
	if c.opts.Toggle != nil {
		c.opts.Toggle.SetCaptureActive(false)
	}

	entries := c.entries
	c.entries = nil
	c.active = nil
	queued := c.opts.Router.ChannelStats()
	for _, e := range entries {
		e.session.Shutdown()
		if n := queued[e.name]; n > 0 {
			log.Printf("Coordinator: dropping %d undelivered hand-offs for %s", n, e.name)
		}
		c.opts.Router.Unregister(e.name)
	}
	c.machine.Reset()
	log.Printf("Coordinator: capture ended, %d sessions torn down", len(entries))
}

// sessionEndpoints returns the registered hand-off endpoints, sorted.
func (c *Coordinator) sessionEndpoints() []string {
	var out []string
	for _, name := range c.opts.Router.ActiveEndpoints() {
		if strings.HasPrefix(name, messages.DisplayEndpointPrefix) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// reclaimEndpoints unregisters hand-off endpoints no live session owns, so a
// new capture can register its own.
func (c *Coordinator) reclaimEndpoints() {
	for _, name := range c.sessionEndpoints() {
		log.Printf("Coordinator: reclaiming stale endpoint %s", name)
		c.opts.Router.Unregister(name)
	}
}

// CancelKey handles the capture-scoped cancel key.
func (c *Coordinator) CancelKey() {
	if !c.inProgress {
		return
	}
	log.Printf("Coordinator: cancelled by key")
	c.EndCapture()
}

// Cancel ends the capture on behalf of a session.
func (c *Coordinator) Cancel(err error) {
	if err != nil {
		log.Printf("Coordinator: capture cancelled: %v", err)
		if c.opts.Notifier != nil {
			c.opts.Notifier.Failed(err)
		}
	} else {
		log.Printf("Coordinator: capture cancelled")
	}
	c.EndCapture()
}

// Commit composites s, runs the commit pipeline and ends the capture.
func (c *Coordinator) Commit(s *session.Session) {
	defer c.EndCapture()
	if !c.inProgress {
		return
	}
	if err := c.machine.Request(session.Done); err != nil {
		log.Printf("Coordinator: %v", err)
		return
	}
	img, err := s.Composite()
	if err != nil {
		log.Printf("Coordinator: composite failed: %v", err)
		return
	}
	if c.opts.Committer == nil {
		log.Printf("Coordinator: no committer configured")
		return
	}
	res, err := c.opts.Committer.Commit(img)
	if err != nil {
		log.Printf("Coordinator: commit failed: %v", err)
		if c.opts.Notifier != nil {
			c.opts.Notifier.Failed(err)
		}
		return
	}
	b := img.Bounds()
	log.Printf("Coordinator: committed %dx%d image, %d annotations, file %q", b.Dx(), b.Dy(), len(s.Annotations()), logutil.RedactHome(res.Path))
	if c.opts.Notifier != nil {
		c.opts.Notifier.Saved(res)
	}
}

// PointerLeft broadcasts a hand-off from s to every other session.
func (c *Coordinator) PointerLeft(s *session.Session, at geometry.Point) {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.name
	}
	c.opts.Router.BroadcastTo(messages.MessageEnvelope{
		From:    messages.DisplayEndpoint(s.Display().ID),
		To:      messages.Broadcast,
		Message: messages.PointerLeft{At: at},
	}, names)
}

// deliverHandOffs drains each session's inbox. Receivers never broadcast,
// so a single pass settles every hand-off.
func (c *Coordinator) deliverHandOffs() {
	for _, e := range c.entries {
		for drained := false; !drained; {
			select {
			case env, ok := <-e.inbox:
				if !ok {
					drained = true
					break
				}
				if m, isLeft := env.Message.(messages.PointerLeft); isLeft {
					e.session.HandOff(m.At)
				}
			default:
				drained = true
			}
		}
	}
}

// Dispatch routes a global pointer event. Down, drag and up go to the
// session whose display held the pointer at mouse-down; moves go to all.
func (c *Coordinator) Dispatch(ev session.MouseEvent) {
	if !c.inProgress {
		return
	}
	switch ev.Kind {
	case session.MouseMove:
		for _, s := range c.Sessions() {
			s.OnMove(ev)
			c.deliverHandOffs()
		}
		return
	case session.MouseDown:
		c.active = c.sessionAt(ev.Location)
	}

	target := c.active
	if target == nil {
		if ev.Kind == session.MouseDown && ev.ClickCount == 2 {
			c.Cancel(nil)
		}
		return
	}
	if ev.Kind == session.MouseUp {
		c.active = nil
	}
	session.Deliver(target, ev)
	c.deliverHandOffs()
}

// DispatchPlatform flips a top-down platform event into screen space and
// dispatches it.
func (c *Coordinator) DispatchPlatform(ev session.MouseEvent) {
	if !c.inProgress {
		return
	}
	ev.Location = geometry.PointToScreenSpace(ev.Location, c.ref)
	c.Dispatch(ev)
}

func (c *Coordinator) sessionAt(p geometry.Point) *session.Session {
	for _, e := range c.entries {
		if e.session.Display().Frame.Contains(p) {
			return e.session
		}
	}
	return nil
}

// ToolClicked forwards a copy-button press from the overlay of display id.
func (c *Coordinator) ToolClicked(id int) {
	for _, s := range c.Sessions() {
		if s.Display().ID == id {
			s.ToolClicked()
			return
		}
	}
}
