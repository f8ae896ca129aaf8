package alloc

import "io"

// StackConfig selects which decorators NewStack layers over a parent.
type StackConfig struct {
	// Counted adds a Counted layer directly over the parent, so its totals
	// include the overhead of every layer above it.
	Counted bool

	// Guarded adds a Guarded layer.
	Guarded bool

	// Alignment adds an Aligned layer when non-zero.
	Alignment int

	// Trace adds an outermost Traced layer writing to this sink when non-nil.
	Trace io.Writer
}

// DefaultStackConfig guards and counts, without alignment or tracing.
var DefaultStackConfig = StackConfig{
	Counted: true,
	Guarded: true,
}

// Stack is a composed allocator. The embedded Allocator is the outermost
// layer; the typed fields expose each layer that was configured, or nil.
type Stack struct {
	Allocator

	Counted *Counted
	Guarded *Guarded
	Aligned *Aligned
	Traced  *Traced
}

// NewStack layers decorators over parent, innermost first:
// Counted, Guarded, Aligned, Traced. A nil parent means Default and a nil
// config means DefaultStackConfig.
func NewStack(parent Allocator, config *StackConfig) *Stack {
	if parent == nil {
		parent = Default()
	}
	if config == nil {
		config = &DefaultStackConfig
	}

	s := &Stack{Allocator: parent}
	if config.Counted {
		s.Counted = NewCounted(s.Allocator)
		s.Allocator = s.Counted
	}
	if config.Guarded {
		s.Guarded = NewGuarded(s.Allocator)
		s.Allocator = s.Guarded
	}
	if config.Alignment > 0 {
		s.Aligned = NewAligned(s.Allocator, config.Alignment)
		s.Allocator = s.Aligned
	}
	if config.Trace != nil {
		s.Traced = NewTraced(s.Allocator, config.Trace)
		s.Allocator = s.Traced
	}
	return s
}
