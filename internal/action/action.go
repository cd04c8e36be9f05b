// Package action implements the dispatch targets of spec.md §4.6: Log,
// Webhook, Email, Process, and the Disabled no-op, plus the ActionBase
// wrapper (§4.1(i)) and a name-keyed registry actions are looked up
// through.
package action

import (
	"context"
	"time"

	"github.com/flo-at/minmon/internal/placeholder"
)

// Action is the contract every dispatch target implements: render its
// template(s) against placeholders and perform its one side effect.
type Action interface {
	Trigger(ctx context.Context, placeholders placeholder.Map) error
}

// Base wraps a concrete Action with the action-level name/placeholders
// (spec.md §4.1(i)) and the per-action timeout. It is itself an Action,
// so callers never need to know whether they hold a Base or a bare
// implementation.
type Base struct {
	Name         string
	Placeholders placeholder.Map
	Timeout      time.Duration
	Action       Action
}

// NewBase builds a Base wrapping action with the given name,
// placeholders and timeout (defaulting to 10s per spec.md §6 when zero).
func NewBase(name string, placeholders placeholder.Map, timeout time.Duration, act Action) *Base {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Base{Name: name, Placeholders: placeholders, Timeout: timeout, Action: act}
}

func (b *Base) Trigger(ctx context.Context, placeholders placeholder.Map) error {
	merged := placeholder.Merge(placeholders, placeholder.Map{"action_name": b.Name}, b.Placeholders)
	ctx, cancel := context.WithTimeout(ctx, b.Timeout)
	defer cancel()
	return b.Action.Trigger(ctx, merged)
}

// Registry is a read-only-after-construction name->Action lookup,
// shared by every alarm/report event that references an action by
// name (spec.md §9 "Shared references to actions").
type Registry struct {
	actions map[string]*Base
}

// NewRegistry builds a Registry from a name->Base map.
func NewRegistry(actions map[string]*Base) *Registry {
	return &Registry{actions: actions}
}

// Get returns the named action, or false if no such action was configured.
func (r *Registry) Get(name string) (*Base, bool) {
	a, ok := r.actions[name]
	return a, ok
}
