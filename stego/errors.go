package stego

import "fmt"

// ConfigurationError is returned before any pixel is touched when the
// parameters cannot be used.
type ConfigurationError struct {
	Field  string
	Value  int
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %d: %s", e.Field, e.Value, e.Reason)
}

type WarningKind int

const (
	// CapacityWarning means the pass has fewer carrier pixels than the payload
	// needs; the trailing characters are dropped.
	CapacityWarning WarningKind = iota
	// NarrowingWarning means some characters were above U+00FF and only their
	// low byte is hidden.
	NarrowingWarning
)

func (k WarningKind) String() string {
	switch k {
	case CapacityWarning:
		return "capacity"
	case NarrowingWarning:
		return "narrowing"
	}
	return fmt.Sprintf("WarningKind(%d)", int(k))
}

// TruncationWarning reports a lossy but recoverable condition. It is never
// returned as an error result.
type TruncationWarning struct {
	Kind  WarningKind
	Count int
}

func (w TruncationWarning) Error() string {
	switch w.Kind {
	case CapacityWarning:
		return fmt.Sprintf("payload does not fit, %d characters dropped", w.Count)
	case NarrowingWarning:
		return fmt.Sprintf("%d characters narrowed to their low byte", w.Count)
	}
	return fmt.Sprintf("%s: %d characters", w.Kind, w.Count)
}
