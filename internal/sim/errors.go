package sim

import (
	"errors"
	"fmt"
)

// SimError represents a rejected lifecycle operation.
//
// All errors are recovered locally: the requested mutation is skipped, an
// audit entry is appended, and the error is returned to the caller. No
// error is fatal to the simulation.
type SimError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op is the operation that was rejected ("fork", "wait", "exit", ...).
	Op string

	// Pid is the process the operation targeted.
	Pid int

	// State is the state that forbade the transition (zero for NOT_FOUND).
	State State

	// Message is a human-readable description.
	Message string
}

// ErrorCode categorizes simulation errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates the referenced pid does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInvalidTransition indicates the operation was attempted from
	// a state that forbids it (e.g. exit on a zombie).
	ErrCodeInvalidTransition ErrorCode = "INVALID_STATE_TRANSITION"

	// ErrCodeNoChildren indicates wait was called with no children at all,
	// the simulation's equivalent of ECHILD.
	ErrCodeNoChildren ErrorCode = "NO_CHILDREN_TO_WAIT"
)

// Error implements the error interface.
func (e *SimError) Error() string {
	if e.Code == ErrCodeNotFound {
		return fmt.Sprintf("%s: %s: no process with pid %d", e.Code, e.Op, e.Pid)
	}
	return fmt.Sprintf("%s: %s(%d): %s", e.Code, e.Op, e.Pid, e.Message)
}

// IsNotFound reports whether err is a NOT_FOUND simulation error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var se *SimError
	return errors.As(err, &se) && se.Code == ErrCodeNotFound
}

// IsInvalidTransition reports whether err is an INVALID_STATE_TRANSITION
// simulation error.
func IsInvalidTransition(err error) bool {
	var se *SimError
	return errors.As(err, &se) && se.Code == ErrCodeInvalidTransition
}

// IsNoChildren reports whether err is a NO_CHILDREN_TO_WAIT simulation
// error.
func IsNoChildren(err error) bool {
	var se *SimError
	return errors.As(err, &se) && se.Code == ErrCodeNoChildren
}

func newNotFoundError(op string, pid int) *SimError {
	return &SimError{Code: ErrCodeNotFound, Op: op, Pid: pid}
}

func newTransitionError(op string, p *Process, msg string) *SimError {
	return &SimError{
		Code:    ErrCodeInvalidTransition,
		Op:      op,
		Pid:     p.Pid,
		State:   p.State,
		Message: msg,
	}
}

func newNoChildrenError(pid int) *SimError {
	return &SimError{
		Code:    ErrCodeNoChildren,
		Op:      "wait",
		Pid:     pid,
		Message: "no children to wait for",
	}
}
