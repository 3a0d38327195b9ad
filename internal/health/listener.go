package health

import (
	"context"
	"errors"
)

// Listener is anything that can report whether it still accepts input.
type Listener interface {
	Listening() bool
}

// ListenerChecker reports a closed or never-bound command listener. The frame
// path keeps running without it, so the result is degraded.
type ListenerChecker struct {
	name     string
	listener Listener
	address  string
}

// NewListenerChecker checks l. l may be nil when binding failed at startup.
func NewListenerChecker(name string, l Listener, address string) *ListenerChecker {
	return &ListenerChecker{name: name, listener: l, address: address}
}

func (c *ListenerChecker) Name() string {
	return c.name
}

func (c *ListenerChecker) Check(context.Context) error {
	if c.listener == nil {
		return Degraded(errors.New("listener not bound"))
	}
	if !c.listener.Listening() {
		return Degraded(errors.New("listener closed"))
	}
	return nil
}

func (c *ListenerChecker) Details() map[string]interface{} {
	return map[string]interface{}{"address": c.address}
}

// FuncChecker adapts a function to Checker.
type FuncChecker struct {
	name string
	fn   func(ctx context.Context) error
}

// NewFuncChecker creates a checker named name that runs fn.
func NewFuncChecker(name string, fn func(ctx context.Context) error) *FuncChecker {
	return &FuncChecker{name: name, fn: fn}
}

func (c *FuncChecker) Name() string                    { return c.name }
func (c *FuncChecker) Check(ctx context.Context) error { return c.fn(ctx) }
