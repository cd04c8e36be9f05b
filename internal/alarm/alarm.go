// Package alarm implements spec.md's C9: an Alarm binds a data sink, a
// state machine, and up to four actions (bad, recover, error,
// error-recover) to one measurement id.
package alarm

import (
	"context"

	"github.com/flo-at/minmon/internal/action"
	"github.com/flo-at/minmon/internal/placeholder"
	"github.com/flo-at/minmon/internal/sink"
	"github.com/flo-at/minmon/internal/statemachine"
)

// Alarm binds a sink of measurement type T to a state machine and its
// four actions (spec.md §4.4).
type Alarm[T any] struct {
	Name string
	// ID is the check_id: the data-source-produced identity (e.g. a
	// mountpoint or interface name) this alarm is bound to.
	ID           string
	Placeholders placeholder.Map
	Invert       bool

	Sink sink.Sink[T]
	FSM  *statemachine.StateMachine

	Action              *action.Base // may be nil: disabled/no action configured
	RecoverAction       *action.Base
	RecoverPlaceholders placeholder.Map
	ErrorAction         *action.Base
	ErrorPlaceholders   placeholder.Map
	ErrorRecoverAction  *action.Base
	ErrorRecoverPlaceholders placeholder.Map

	// OnActionError is invoked to report swallowed action failures; callers
	// inject it rather than this package importing zerolog directly
	// at every call site.
	OnActionError func(actionKind, err string)
}

// basePlaceholders layers check_id/alarm_name/a.Placeholders (spec.md
// §4.1 layer g) on top of p. Callers must apply this last, after the
// sink and FSM layers, so a configured placeholder wins over a
// same-named sink/FSM key per the documented precedence.
func (a *Alarm[T]) basePlaceholders(p placeholder.Map) placeholder.Map {
	return placeholder.Merge(p, placeholder.Map{"check_id": a.ID, "alarm_name": a.Name}, a.Placeholders)
}

// PutData feeds one successful measurement into the alarm: classify,
// invert, drive the FSM, dispatch whichever actions fire. Action
// failures are logged and swallowed (spec.md §4.4 step 5).
func (a *Alarm[T]) PutData(ctx context.Context, data T, tickPlaceholders placeholder.Map) {
	p := a.Sink.AddPlaceholders(data, tickPlaceholders)

	decision := a.Sink.Classify(data)
	if a.Invert {
		decision = invert(decision)
	}

	switch decision {
	case sink.Good:
		trigger, triggerErrorRecover := a.FSM.Good()
		p = a.basePlaceholders(a.FSM.AddPlaceholders(p))
		if trigger {
			a.dispatch(ctx, a.RecoverAction, "recover", placeholder.Merge(p, a.RecoverPlaceholders))
		}
		if triggerErrorRecover {
			a.dispatch(ctx, a.ErrorRecoverAction, "error-recover", placeholder.Merge(p, a.ErrorRecoverPlaceholders))
		}
	case sink.Bad:
		trigger, triggerErrorRecover := a.FSM.Bad()
		p = a.basePlaceholders(a.FSM.AddPlaceholders(p))
		if trigger {
			a.dispatch(ctx, a.Action, "bad", p)
		}
		if triggerErrorRecover {
			a.dispatch(ctx, a.ErrorRecoverAction, "error-recover", placeholder.Merge(p, a.ErrorRecoverPlaceholders))
		}
	}
}

// PutError feeds a data-source/sink error into the alarm, dispatching
// the error action (and error-recover if this immediately clears a
// prior Error — it never does on entry, but repeats of an existing
// Error never fire error-recover either, only the error action).
func (a *Alarm[T]) PutError(ctx context.Context, errText string, tickPlaceholders placeholder.Map) {
	p := tickPlaceholders.With("check_error", errText)

	trigger := a.FSM.Error()
	p = a.basePlaceholders(a.FSM.AddPlaceholders(p))
	if trigger {
		a.dispatch(ctx, a.ErrorAction, "error", placeholder.Merge(p, a.ErrorPlaceholders))
	}
}

func (a *Alarm[T]) dispatch(ctx context.Context, act *action.Base, kind string, p placeholder.Map) {
	if act == nil {
		return
	}
	if err := act.Trigger(ctx, p); err != nil && a.OnActionError != nil {
		a.OnActionError(kind, err.Error())
	}
}

func invert(d sink.Decision) sink.Decision {
	if d == sink.Good {
		return sink.Bad
	}
	return sink.Good
}
