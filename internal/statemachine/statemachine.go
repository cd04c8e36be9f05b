// Package statemachine implements the three-state (Good/Bad/Error)
// debouncing state machine of spec.md §4.3: it turns a stream of
// bad/good/error events into a small set of trigger decisions,
// absorbing flapping via cycle counters and shadowing Error over
// whatever state preceded it.
package statemachine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/flo-at/minmon/internal/placeholder"
)

type kind uint8

const (
	kindGood kind = iota
	kindBad
	kindError
)

func (k kind) String() string {
	switch k {
	case kindGood:
		return "Good"
	case kindBad:
		return "Bad"
	case kindError:
		return "Error"
	default:
		return "unknown"
	}
}

// state is a tagged union over the three state variants. Only the
// fields relevant to `kind` are meaningful at any moment; this mirrors
// the Rust enum's per-variant structs without the allocation overhead
// of separate boxed types.
type state struct {
	kind kind

	timestamp time.Time
	instant   time.Time // monotonic reference for elapsed-time computation

	hasLastDuration bool
	lastDuration    time.Duration

	// Good
	badCycles     uint32
	lastAlarmUUID string // set when Good was reached by recovering from Bad

	// Bad
	cycles     uint32
	goodCycles uint32
	alarmUUID  string

	// Error
	errorUUID string
	shadowed  *state
}

func newGoodState() state {
	now := time.Now()
	return state{kind: kindGood, timestamp: now, instant: now}
}

// StateMachine is the per-alarm debouncing FSM of spec.md §4.3.
type StateMachine struct {
	cycles            uint32
	repeatCycles      uint32
	recoverCycles     uint32
	errorRepeatCycles uint32
	state             state
	logID             string
}

// New builds a StateMachine starting in the Good state.
func New(cycles, repeatCycles, recoverCycles, errorRepeatCycles uint32, logID string) (*StateMachine, error) {
	if cycles == 0 {
		return nil, fmt.Errorf("'cycles' cannot be 0")
	}
	if recoverCycles == 0 {
		return nil, fmt.Errorf("'recover_cycles' cannot be 0")
	}
	return &StateMachine{
		cycles:            cycles,
		repeatCycles:      repeatCycles,
		recoverCycles:     recoverCycles,
		errorRepeatCycles: errorRepeatCycles,
		state:             newGoodState(),
		logID:             logID,
	}, nil
}

// Error feeds an error event to the machine. The returned bool is
// whether the error/error-repeat action should fire.
func (m *StateMachine) Error() bool {
	trigger := false
	switch m.state.kind {
	case kindGood, kindBad:
		trigger = true
		shadowed := m.state
		now := time.Now()
		m.state = state{
			kind:         kindError,
			timestamp:    now,
			lastDuration: now.Sub(shadowed.instant),
			errorUUID:    uuid.New().String(),
			shadowed:     &shadowed,
			cycles:       1,
		}
	case kindError:
		if m.state.cycles == m.errorRepeatCycles && m.errorRepeatCycles > 0 {
			trigger = true
			m.state.cycles = 1
		} else {
			m.state.cycles++
		}
	}
	return trigger
}

// Bad feeds a bad event to the machine. Returns (trigger for the
// bad/bad-repeat action, triggerErrorRecover for the error-recover
// action).
func (m *StateMachine) Bad() (bool, bool) {
	switch m.state.kind {
	case kindGood:
		good := m.state
		if good.badCycles+1 == m.cycles {
			now := time.Now()
			m.state = state{
				kind:         kindBad,
				timestamp:    now,
				instant:      now,
				lastDuration: now.Sub(good.instant),
				cycles:       1,
				goodCycles:   0,
				alarmUUID:    uuid.New().String(),
			}
			return true, false
		}
		good.badCycles++
		m.state = good
		return false, false

	case kindBad:
		if m.state.cycles == m.repeatCycles && m.repeatCycles > 0 {
			m.state.cycles = 1
			m.state.goodCycles = 0
			return true, false
		}
		m.state.cycles++
		m.state.goodCycles = 0
		return false, false

	case kindError:
		shadowed := *m.state.shadowed
		m.state = shadowed
		trigger, _ := m.Bad()
		return trigger, true

	default:
		return false, false
	}
}

// Good feeds a good event to the machine. Returns (trigger for the
// recover action, triggerErrorRecover for the error-recover action).
func (m *StateMachine) Good() (bool, bool) {
	switch m.state.kind {
	case kindGood:
		return false, false

	case kindBad:
		bad := m.state
		if bad.goodCycles+1 == m.recoverCycles {
			now := time.Now()
			m.state = state{
				kind:            kindGood,
				timestamp:       now,
				instant:         now,
				hasLastDuration: true,
				lastDuration:    now.Sub(bad.instant),
				lastAlarmUUID:   bad.alarmUUID,
			}
			return true, false
		}
		bad.cycles++
		bad.goodCycles++
		m.state = bad
		return false, false

	case kindError:
		shadowed := *m.state.shadowed
		m.state = shadowed
		trigger, _ := m.Good()
		return trigger, true

	default:
		return false, false
	}
}

// AddPlaceholders layers the FSM's current-state placeholders onto p
// (spec.md §4.3's placeholder contribution list) and returns the result.
func (m *StateMachine) AddPlaceholders(p placeholder.Map) placeholder.Map {
	out := placeholder.Merge(p)
	s := &m.state
	switch s.kind {
	case kindBad:
		out["alarm_state"] = "Bad"
		out["alarm_uuid"] = s.alarmUUID
		out["alarm_timestamp"] = s.timestamp.Format(time.RFC3339)
		out["alarm_last_duration"] = fmt.Sprintf("%d", int64(s.lastDuration.Seconds()))
		out["alarm_last_duration_iso"] = formatDurationISO8601(s.lastDuration)

	case kindGood:
		out["alarm_state"] = "Good"
		out["alarm_timestamp"] = s.timestamp.Format(time.RFC3339)
		if s.hasLastDuration {
			out["alarm_uuid"] = s.lastAlarmUUID
			out["alarm_last_duration"] = fmt.Sprintf("%d", int64(s.lastDuration.Seconds()))
			out["alarm_last_duration_iso"] = formatDurationISO8601(s.lastDuration)
		}

	case kindError:
		out["alarm_state"] = "Error"
		out["error_uuid"] = s.errorUUID
		out["error_timestamp"] = s.timestamp.Format(time.RFC3339)
		out["alarm_last_duration"] = fmt.Sprintf("%d", int64(s.lastDuration.Seconds()))
		out["alarm_last_duration_iso"] = formatDurationISO8601(s.lastDuration)
	}
	return out
}

// formatDurationISO8601 renders d as an ISO-8601 duration (PnDTnHnMnS).
func formatDurationISO8601(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalSeconds := int64(d.Seconds())
	days := totalSeconds / 86400
	totalSeconds %= 86400
	hours := totalSeconds / 3600
	totalSeconds %= 3600
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60

	out := "P"
	if days > 0 {
		out += fmt.Sprintf("%dD", days)
	}
	out += "T"
	out += fmt.Sprintf("%dH%dM%dS", hours, minutes, seconds)
	return out
}
