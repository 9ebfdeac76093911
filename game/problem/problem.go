// Package problem defines the search-problem view of a game: what an
// observer perceives, which actions are legal, how an action transforms the
// state, and when the goal is reached.
package problem

import "errors"

// ErrIllegalAction is returned by Step when the action is not among the
// state's legal actions.
var ErrIllegalAction = errors.New("illegal action")

// Problem is implemented by immutable game states. Result must return a new
// state and leave the receiver untouched.
type Problem[S any, A comparable, P any] interface {
	Percept() P
	Actions() []A
	Result(action A) S
	IsGoal() bool
}

// Legal reports whether a is one of p's legal actions.
func Legal[S Problem[S, A, P], A comparable, P any](p S, a A) bool {
	for _, candidate := range p.Actions() {
		if candidate == a {
			return true
		}
	}
	return false
}

// Step applies a to p after checking that it is legal.
func Step[S Problem[S, A, P], A comparable, P any](p S, a A) (S, error) {
	if !Legal[S, A, P](p, a) {
		return p, ErrIllegalAction
	}
	return p.Result(a), nil
}
