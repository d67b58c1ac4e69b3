// Package x11 samples the focused window over the raw X protocol.
package x11

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/goaltrack/goaltrack/pkg/watch"
)

// Watcher implements watch.Watcher over a persistent X connection.
type Watcher struct {
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
}

// NewWatcher connects to the X server and interns the atoms sampling needs.
func NewWatcher() (*Watcher, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	root := setup.DefaultScreen(conn).Root

	w := &Watcher{
		conn:  conn,
		root:  root,
		atoms: make(map[string]xproto.Atom),
	}

	atomNames := []string{
		"_NET_ACTIVE_WINDOW",
		"_NET_WM_NAME",
		"_NET_WM_PID",
		"WM_NAME",
		"WM_CLASS",
		"UTF8_STRING",
	}

	for _, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to intern atom %s: %w", name, err)
		}
		w.atoms[name] = reply.Atom
	}

	return w, nil
}

// IsAvailable reports whether an X session looks reachable.
func (w *Watcher) IsAvailable() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("XDG_SESSION_TYPE") == "x11"
}

// Close releases the X connection.
func (w *Watcher) Close() error {
	w.conn.Close()
	return nil
}

// Sample returns the currently focused window.
func (w *Watcher) Sample() (*watch.FocusSample, error) {
	windowID, err := w.activeWindow()
	if err != nil {
		return nil, err
	}

	instance, class := w.windowClass(windowID)
	appName := instance
	if appName == "" {
		appName = class
	}

	return &watch.FocusSample{
		AppName:     appName,
		WindowTitle: w.windowName(windowID),
		Class:       class,
		PID:         w.windowPID(windowID),
	}, nil
}

func (w *Watcher) getProperty(window xproto.Window, atom xproto.Atom, atomType xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(w.conn, false, window, atom, atomType, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}

func (w *Watcher) activeWindowFromProperty() xproto.Window {
	data, err := w.getProperty(w.root, w.atoms["_NET_ACTIVE_WINDOW"], xproto.AtomWindow, 1)
	if err != nil || len(data) < 4 {
		return 0
	}
	return xproto.Window(binary.LittleEndian.Uint32(data))
}

func (w *Watcher) activeWindowFromInputFocus() xproto.Window {
	reply, err := xproto.GetInputFocus(w.conn).Reply()
	if err != nil {
		return 0
	}
	return reply.Focus
}

func (w *Watcher) topLevelParent(window xproto.Window) xproto.Window {
	for {
		reply, err := xproto.QueryTree(w.conn, window).Reply()
		if err != nil || reply.Parent == w.root || reply.Parent == 0 {
			return window
		}
		window = reply.Parent
	}
}

func (w *Watcher) hasValidName(window xproto.Window) bool {
	data, _ := w.getProperty(window, w.atoms["_NET_WM_NAME"], w.atoms["UTF8_STRING"], 1)
	if len(data) > 0 {
		return true
	}
	data, _ = w.getProperty(window, w.atoms["WM_NAME"], xproto.AtomString, 1)
	return len(data) > 0
}

// activeWindow retries briefly; around focus changes _NET_ACTIVE_WINDOW and
// the input focus can disagree for a few milliseconds.
func (w *Watcher) activeWindow() (xproto.Window, error) {
	for i := 0; i < 5; i++ {
		windowID := w.activeWindowFromProperty()
		if windowID != 0 && w.hasValidName(windowID) {
			return windowID, nil
		}

		windowID = w.activeWindowFromInputFocus()
		if windowID != 0 && windowID != w.root {
			topLevel := w.topLevelParent(windowID)
			if topLevel != 0 && w.hasValidName(topLevel) {
				return topLevel, nil
			}
		}

		time.Sleep(20 * time.Millisecond)
	}

	return 0, errors.New("no active window found")
}

func (w *Watcher) windowName(window xproto.Window) string {
	data, err := w.getProperty(window, w.atoms["_NET_WM_NAME"], w.atoms["UTF8_STRING"], 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}

	data, err = w.getProperty(window, w.atoms["WM_NAME"], xproto.AtomString, 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}

	return ""
}

func (w *Watcher) windowClass(window xproto.Window) (instance, class string) {
	data, err := w.getProperty(window, w.atoms["WM_CLASS"], xproto.AtomString, 256)
	if err != nil || len(data) == 0 {
		return "", ""
	}

	parts := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
	if len(parts) >= 1 {
		instance = parts[0]
	}
	if len(parts) >= 2 {
		class = parts[1]
	}
	return instance, class
}

func (w *Watcher) windowPID(window xproto.Window) uint32 {
	data, err := w.getProperty(window, w.atoms["_NET_WM_PID"], xproto.AtomCardinal, 1)
	if err != nil || len(data) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(data)
}
