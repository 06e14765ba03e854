// Package notify carries the toast-style user notifications of the join and
// create flows. Flows emit exactly one notification per failed user action;
// ban notices are a separate class emitted by the attempt manager.
package notify

import (
	"fmt"
	"io"
	"sync"
)

// Notifier receives user-facing notifications in the user's language.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Console writes notifications to a terminal.
type Console struct {
	Out io.Writer
}

func (c Console) Success(message string) {
	fmt.Fprintln(c.Out, message)
}

func (c Console) Error(message string) {
	fmt.Fprintln(c.Out, "! "+message)
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	mu       sync.Mutex
	Messages []string
	Errors   []string
}

func (r *Recorder) Success(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, message)
}

func (r *Recorder) Error(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, message)
}

// ErrorCount returns how many error notifications were recorded.
func (r *Recorder) ErrorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Errors)
}

// Discard drops every notification; handy where a flow runs headless.
type Discard struct{}

func (Discard) Success(string) {}
func (Discard) Error(string)   {}
