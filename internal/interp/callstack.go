package interp

import (
	"fmt"

	"github.com/Josemarialanda/plox/internal/errors"
	"github.com/Josemarialanda/plox/internal/lexer"
)

// CallStack tracks in-flight Lox calls so VisitCallExpr can detect
// unbounded recursion before the Go stack itself overflows.
type CallStack struct {
	frames   errors.StackTrace
	maxDepth int
}

// NewCallStack creates a call stack with the given maximum depth.
// If maxDepth is 0 or negative, a default of 1024 is used.
func NewCallStack(maxDepth int) *CallStack {
	if maxDepth <= 0 {
		maxDepth = 1024
	}
	return &CallStack{
		frames:   errors.NewStackTrace(),
		maxDepth: maxDepth,
	}
}

// Push adds a frame for an about-to-run call, failing once maxDepth
// frames are already in flight.
func (cs *CallStack) Push(functionName string, sourceFile string, pos *lexer.Position) error {
	if len(cs.frames) >= cs.maxDepth {
		return fmt.Errorf("stack overflow: maximum recursion depth (%d) exceeded in function '%s'", cs.maxDepth, functionName)
	}

	cs.frames = append(cs.frames, errors.NewStackFrame(functionName, sourceFile, pos))
	return nil
}

// Pop removes the most recently pushed frame. A no-op on an empty stack.
func (cs *CallStack) Pop() {
	if len(cs.frames) > 0 {
		cs.frames = cs.frames[:len(cs.frames)-1]
	}
}

// Depth returns the number of calls currently in flight.
func (cs *CallStack) Depth() int {
	return len(cs.frames)
}
