package hotkey

import (
	"fmt"
	"log"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"

	"snapshot/src/geometry"
	"snapshot/src/session"
)

type keyState struct {
	name     string
	keycodes []uint16
	pressed  bool
}

type combo struct {
	config string
	keys   []keyState
	fn     func()
}

func newCombo(config string, fn func()) (*combo, error) {
	c := &combo{config: config, fn: fn}
	for _, name := range parseHotkey(config) {
		codes := keyNameToKeycodes(name)
		if len(codes) == 0 {
			return nil, fmt.Errorf("cannot map key %q in hotkey %q", name, config)
		}
		c.keys = append(c.keys, keyState{name: name, keycodes: codes})
	}
	if len(c.keys) == 0 {
		return nil, fmt.Errorf("no valid keys in hotkey %q", config)
	}
	return c, nil
}

// press marks code as held and reports whether the whole combination is
// now down. A completed combination resets so it fires once per press.
func (c *combo) press(code uint16) bool {
	for i := range c.keys {
		for _, kc := range c.keys[i].keycodes {
			if kc == code {
				c.keys[i].pressed = true
				break
			}
		}
	}
	for i := range c.keys {
		if !c.keys[i].pressed {
			return false
		}
	}
	for i := range c.keys {
		c.keys[i].pressed = false
	}
	return true
}

func (c *combo) release(code uint16) {
	for i := range c.keys {
		for _, kc := range c.keys[i].keycodes {
			if kc == code {
				c.keys[i].pressed = false
				break
			}
		}
	}
}

// Listener is the single global input hook. It fires registered combos at
// any time; the cancel key and the mouse monitor only while a capture is
// active.
type Listener struct {
	mu      sync.Mutex
	combos  []*combo
	cancel  *combo
	onMouse func(session.MouseEvent)
	active  bool
	running bool
}

// New returns a listener with nothing registered.
func New() *Listener { return &Listener{} }

// Register fires fn whenever the combination (e.g. "Ctrl+Cmd+A") is pressed.
func (l *Listener) Register(config string, fn func()) error {
	c, err := newCombo(config, fn)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.combos = append(l.combos, c)
	l.mu.Unlock()
	log.Printf("Hotkey listener configured for: %s", config)
	return nil
}

// OnCancel sets the capture-scoped cancel key.
func (l *Listener) OnCancel(config string, fn func()) error {
	c, err := newCombo(config, fn)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.cancel = c
	l.mu.Unlock()
	return nil
}

// OnMouse sets the receiver for global pointer events. Locations are in
// platform (top-down) coordinates.
func (l *Listener) OnMouse(fn func(session.MouseEvent)) {
	l.mu.Lock()
	l.onMouse = fn
	l.mu.Unlock()
}

// SetCaptureActive enables or disables the cancel key and mouse monitor.
func (l *Listener) SetCaptureActive(active bool) {
	l.mu.Lock()
	l.active = active
	l.mu.Unlock()
	log.Printf("Hotkey: capture inputs active=%v", active)
}

// Start runs the gohook event loop in a goroutine.
func (l *Listener) Start() {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return
	}
	l.running = true
	l.mu.Unlock()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in hotkey goroutine: %v", r)
			}
		}()

		log.Printf("Starting gohook event loop...")
		evChan := gohook.Start()
		if evChan == nil {
			log.Printf("ERROR: gohook.Start() returned nil channel")
			return
		}
		for ev := range evChan {
			l.handle(ev)
		}
		log.Printf("Event channel closed")
	}()
}

// Stop ends the gohook event loop.
func (l *Listener) Stop() {
	l.mu.Lock()
	running := l.running
	l.running = false
	l.mu.Unlock()
	if running {
		gohook.End()
	}
}

func (l *Listener) handle(ev gohook.Event) {
	var fire []func()
	var mouse func(session.MouseEvent)
	var mev session.MouseEvent

	l.mu.Lock()
	switch ev.Kind {
	// KeyDown is a typed character, KeyHold a physical press.
	case gohook.KeyDown, gohook.KeyHold:
		for _, c := range l.combos {
			if c.press(ev.Keycode) {
				log.Printf("Hotkey combination detected: %s", c.config)
				fire = append(fire, c.fn)
			}
		}
		if l.cancel != nil && l.cancel.press(ev.Keycode) && l.active {
			fire = append(fire, l.cancel.fn)
		}
	case gohook.KeyUp:
		for _, c := range l.combos {
			c.release(ev.Keycode)
		}
		if l.cancel != nil {
			l.cancel.release(ev.Keycode)
		}
	default:
		if kind, ok := mouseKind(ev.Kind); ok && l.active && l.onMouse != nil {
			mouse = l.onMouse
			mev = session.MouseEvent{
				Kind:       kind,
				Location:   geometry.Pt(float64(ev.X), float64(ev.Y)),
				ClickCount: int(ev.Clicks),
			}
		}
	}
	l.mu.Unlock()

	for _, fn := range fire {
		if fn != nil {
			fn()
		}
	}
	if mouse != nil {
		mouse(mev)
	}
}

// mouseKind maps gohook kinds. gohook reports a button press as MouseHold
// and a release as MouseDown; MouseUp is the synthesized click and is ignored.
func mouseKind(k uint8) (session.EventKind, bool) {
	switch k {
	case gohook.MouseHold:
		return session.MouseDown, true
	case gohook.MouseDown:
		return session.MouseUp, true
	case gohook.MouseDrag:
		return session.MouseDrag, true
	case gohook.MouseMove:
		return session.MouseMove, true
	}
	return 0, false
}

// parseHotkey converts a hotkey string like "Ctrl+Cmd+A" to normalized key names
func parseHotkey(hotkeyConfig string) []string {
	parts := strings.Split(strings.ToLower(hotkeyConfig), "+")
	var keys []string

	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch part {
		case "":
			continue
		case "ctrl", "control":
			keys = append(keys, "ctrl")
		case "alt", "option", "opt":
			keys = append(keys, "alt")
		case "shift":
			keys = append(keys, "shift")
		case "win", "cmd", "command", "super", "meta":
			keys = append(keys, "cmd")
		case "escape":
			keys = append(keys, "esc")
		default:
			keys = append(keys, part)
		}
	}

	return keys
}

// Virtual key codes reported in gohook's Event.Keycode. They are the same
// on every platform.
var keycodes = map[string][]uint16{
	"ctrl":  {0x001D, 0x0E1D},
	"alt":   {0x0038, 0x0E38},
	"shift": {0x002A, 0x0036},
	"cmd":   {0x0E5B, 0x0E5C},

	"esc":       {0x0001},
	"tab":       {0x000F},
	"space":     {0x0039},
	"enter":     {0x001C},
	"return":    {0x001C},
	"backspace": {0x000E},
	"delete":    {0x0E53},
	"up":        {0xE048},
	"left":      {0xE04B},
	"right":     {0xE04D},
	"down":      {0xE050},

	"1": {0x0002}, "2": {0x0003}, "3": {0x0004}, "4": {0x0005}, "5": {0x0006},
	"6": {0x0007}, "7": {0x0008}, "8": {0x0009}, "9": {0x000A}, "0": {0x000B},

	"q": {0x0010}, "w": {0x0011}, "e": {0x0012}, "r": {0x0013}, "t": {0x0014},
	"y": {0x0015}, "u": {0x0016}, "i": {0x0017}, "o": {0x0018}, "p": {0x0019},
	"a": {0x001E}, "s": {0x001F}, "d": {0x0020}, "f": {0x0021}, "g": {0x0022},
	"h": {0x0023}, "j": {0x0024}, "k": {0x0025}, "l": {0x0026},
	"z": {0x002C}, "x": {0x002D}, "c": {0x002E}, "v": {0x002F}, "b": {0x0030},
	"n": {0x0031}, "m": {0x0032},

	"f1": {0x003B}, "f2": {0x003C}, "f3": {0x003D}, "f4": {0x003E},
	"f5": {0x003F}, "f6": {0x0040}, "f7": {0x0041}, "f8": {0x0042},
	"f9": {0x0043}, "f10": {0x0044}, "f11": {0x0057}, "f12": {0x0058},
}

// keyNameToKeycodes maps a key name to its keycodes (both sides for modifiers)
func keyNameToKeycodes(keyName string) []uint16 {
	codes, ok := keycodes[strings.ToLower(strings.TrimSpace(keyName))]
	if !ok {
		log.Printf("WARNING: Unknown key name '%s', cannot map to keycode", keyName)
		return nil
	}
	return codes
}
