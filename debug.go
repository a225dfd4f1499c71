package main

// DebugLine is a segment drawn by clients on top of the world
type DebugLine struct {
	Start Vec2     `msgpack:"s"`
	End   Vec2     `msgpack:"e"`
	Color [4]uint8 `msgpack:"c"`
}

// DebugSink collects debug lines during a tick. A nil sink discards
// everything, so callers never need to check.
type DebugSink struct {
	lines []DebugLine
}

func NewDebugSink() *DebugSink { return &DebugSink{} }

func (s *DebugSink) Line(start, end Vec2, color [4]uint8) {
	if s == nil {
		return
	}
	s.lines = append(s.lines, DebugLine{Start: start, End: end, Color: color})
}

// Drain returns the collected lines and resets the sink
func (s *DebugSink) Drain() []DebugLine {
	if s == nil || len(s.lines) == 0 {
		return nil
	}
	out := s.lines
	s.lines = nil
	return out
}
