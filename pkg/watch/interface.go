package watch

// FocusSample describes the window that held focus at sampling time.
type FocusSample struct {
	AppName     string
	WindowTitle string
	Class       string
	PID         uint32
}

// Watcher is the interface all focused-window sampling implementations must
// satisfy.
type Watcher interface {
	// Sample returns the currently focused window.
	Sample() (*FocusSample, error)

	// IsAvailable checks if this watcher can run on the current system
	IsAvailable() bool

	// Close cleans up any resources used by the watcher
	Close() error
}
