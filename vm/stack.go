// Copyright © 2024 The ruby-lint authors

package vm

import (
	"github.com/h2dkb/ruby-lint/definition"
)

// NestedStack is a stack of frames.  Handlers open a frame before descending
// into children and collect whatever values the children produced when they
// return.  Pushing with no open frame is silently dropped, which makes
// speculative pushes (an assignment offering its value to a possible
// enclosing call) safe.
type NestedStack struct {
	frames [][]*definition.Definition
}

// AddStack opens a new frame.
func (s *NestedStack) AddStack() {
	s.frames = append(s.frames, nil)
}

// Push appends a value to the innermost frame.  Without an open frame the
// value is dropped.
func (s *NestedStack) Push(d *definition.Definition) {
	if len(s.frames) == 0 {
		return
	}
	top := len(s.frames) - 1
	s.frames[top] = append(s.frames[top], d)
}

// Pop closes the innermost frame and returns its values in push order.
// Popping with no open frame is an engine bug.
func (s *NestedStack) Pop() []*definition.Definition {
	if len(s.frames) == 0 {
		panic(&consistencyError{msg: "stack popped without an open frame"})
	}
	top := len(s.frames) - 1
	frame := s.frames[top]
	s.frames = s.frames[:top]
	return frame
}

// Empty reports whether no frame is open.
func (s *NestedStack) Empty() bool {
	return len(s.frames) == 0
}

// Len returns the number of open frames.
func (s *NestedStack) Len() int {
	return len(s.frames)
}
