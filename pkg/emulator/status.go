package emulator

// Status represents the status of the emulator's
// CPU. It can be one of the following:
//
//   - Stopped
//   - Running
//   - Paused
//   - Errored
type Status int

const (
	// Stopped represents the status of the emulator
	// before it has been started, or after it has
	// been closed.
	Stopped Status = iota
	// Running represents the status of the
	// CPU when it is running.
	Running
	// Paused represents the status of the emulator
	// when it has been paused by the user.
	Paused
	// Errored represents the status of the
	// CPU when it has encountered an unexpected
	// error.
	Errored
)

func (s Status) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Errored:
		return "Errored"
	default:
		return "Unknown"
	}
}

func (s Status) IsRunning() bool {
	return s == Running
}

func (s Status) IsPaused() bool {
	return s == Paused
}

func (s Status) IsErrored() bool {
	return s == Errored
}
