package vm

// DefaultMaxCallDepth bounds the call stack when no limit is configured.
const DefaultMaxCallDepth = 1024

// Frame is one pending call.
type Frame struct {
	Return   int    // instruction index to resume at
	Function string // callee, for diagnostics
	saved    []binding
}

// CallStack holds return addresses. Its depth is bounded; the bound is also
// the recursion limit.
type CallStack struct {
	frames []Frame
	max    int
}

// NewCallStack creates a stack holding at most max frames. A non-positive
// max selects DefaultMaxCallDepth.
func NewCallStack(max int) *CallStack {
	if max <= 0 {
		max = DefaultMaxCallDepth
	}
	return &CallStack{max: max}
}

// Push adds a frame. It reports false when the stack is full.
func (s *CallStack) Push(f Frame) bool {
	if len(s.frames) >= s.max {
		return false
	}
	s.frames = append(s.frames, f)
	return true
}

// Pop removes the top frame. An empty stack reports false, which the VM
// treats as returning from the top level.
func (s *CallStack) Pop() (Frame, bool) {
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f, true
}

// Depth returns the number of pending calls.
func (s *CallStack) Depth() int {
	return len(s.frames)
}

// Max returns the configured bound.
func (s *CallStack) Max() int {
	return s.max
}
