package monitor

// History is the ordered record a reporter reprints every tick: one rendered
// line per sample plus, when graphics are on, the raw value each line was
// built from so the next tick can compute a delta.
//
// A History is owned by exactly one reporter goroutine and is not safe for
// concurrent use.
type History struct {
	capacity int
	lines    []string
	values   []float64
}

// NewHistory creates a history holding at most capacity lines.
// A non-positive capacity is treated as 1.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 1
	}
	return &History{
		capacity: capacity,
		lines:    make([]string, 0, capacity),
	}
}

// Push appends a rendered line, dropping the oldest one when full.
func (h *History) Push(line string) {
	if len(h.lines) == h.capacity {
		h.lines = h.lines[1:]
	}
	h.lines = append(h.lines, line)
}

// PushValue records the raw value behind the most recent line.
func (h *History) PushValue(value float64) {
	if len(h.values) == h.capacity {
		h.values = h.values[1:]
	}
	h.values = append(h.values, value)
}

// LastValue returns the most recently recorded raw value.
func (h *History) LastValue() (float64, bool) {
	if len(h.values) == 0 {
		return 0, false
	}
	return h.values[len(h.values)-1], true
}

// Lines returns the rendered lines in chronological order (oldest first).
func (h *History) Lines() []string {
	out := make([]string, len(h.lines))
	copy(out, h.lines)
	return out
}

// Len returns the number of rendered lines held.
func (h *History) Len() int {
	return len(h.lines)
}

// Cap returns the maximum number of lines the history holds.
func (h *History) Cap() int {
	return h.capacity
}
