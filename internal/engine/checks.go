package engine

import (
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/flo-at/minmon/internal/action"
	"github.com/flo-at/minmon/internal/alarm"
	"github.com/flo-at/minmon/internal/check"
	"github.com/flo-at/minmon/internal/config"
	"github.com/flo-at/minmon/internal/datasource"
	"github.com/flo-at/minmon/internal/filter"
	"github.com/flo-at/minmon/internal/logging"
	"github.com/flo-at/minmon/internal/measurement"
	"github.com/flo-at/minmon/internal/sink"
	"github.com/flo-at/minmon/internal/statemachine"
)

// buildChecks resolves cfg.Checks into runnable check.Check instances,
// mirroring lib.rs's init_checks (skip disabled, log interval) and
// check/mod.rs's from_check_config dispatch — one factory branch per
// measurement kind, since Go generics can't dispatch on a runtime tag
// the way the Rust trait-object factory does.
func buildChecks(cfgs []config.Check, actions *action.Registry, root zerolog.Logger) ([]check.Check, error) {
	logger := logging.Component(root, "engine")
	logger.Info().Int("count", len(cfgs)).Msg("initializing checks")

	checkLogger := logging.Component(root, "check")
	alarmLogger := logging.Component(root, "alarm")

	var out []check.Check
	for _, c := range cfgs {
		if c.Disable {
			logger.Info().Str("check", c.Name).Str("type", string(c.Kind)).Msg("check is disabled")
			continue
		}
		built, err := buildCheck(c, actions, checkLogger, alarmLogger)
		if err != nil {
			return nil, fmt.Errorf("check %q: %w", c.Name, err)
		}
		logger.Info().Str("check", built.Name()).Dur("interval", built.Interval()).Msg("check initialized")
		out = append(out, built)
	}
	return out, nil
}

func buildCheck(c config.Check, actions *action.Registry, checkLogger, alarmLogger zerolog.Logger) (check.Check, error) {
	switch c.Kind {
	case config.CheckFilesystemUsageKind:
		src, err := datasource.NewFilesystemUsage(c.FilesystemUsage.Mountpoints)
		if err != nil {
			return nil, err
		}
		return buildBase(c, src, levelSinkBuilder, actions, checkLogger, alarmLogger)
	case config.CheckMemoryUsageKind:
		src, err := datasource.NewMemoryUsage(c.MemoryUsage.Memory, c.MemoryUsage.Swap)
		if err != nil {
			return nil, err
		}
		return buildBase(c, src, levelSinkBuilder, actions, checkLogger, alarmLogger)
	case config.CheckPressureAverageKind:
		p := c.PressureAverage
		src, err := datasource.NewPressureAverage(p.CPU, pressureChoice(p.IO), pressureChoice(p.Memory), p.Avg10, p.Avg60, p.Avg300)
		if err != nil {
			return nil, err
		}
		return buildBase(c, src, levelSinkBuilder, actions, checkLogger, alarmLogger)
	case config.CheckProcessExitStatusKind:
		src := datasource.NewProcessExitStatus(toProcessConfig(c.ProcessExitStatus.ProcessConfig))
		return buildBase(c, src, statusCodeSinkBuilder, actions, checkLogger, alarmLogger)
	case config.CheckSystemdUnitStatusKind:
		units := make([]datasource.SystemdUnit, len(c.SystemdUnitStatus.Units))
		for i, u := range c.SystemdUnitStatus.Units {
			units[i] = datasource.SystemdUnit{Unit: u.Unit, UID: u.UID}
		}
		src := datasource.NewSystemdUnitStatus(units)
		return buildBase(c, src, binaryStateSinkBuilder, actions, checkLogger, alarmLogger)
	case config.CheckTemperatureKind:
		sensors := make([]datasource.SensorID, len(c.Temperature.Sensors))
		for i, s := range c.Temperature.Sensors {
			sensors[i] = datasource.SensorID{Chip: s.Sensor, Label: s.Label}
		}
		src := datasource.NewTemperature(sensors)
		return buildBase(c, src, temperatureSinkBuilder, actions, checkLogger, alarmLogger)
	case config.CheckNetworkThroughputKind:
		n := c.NetworkThroughput
		src, err := datasource.NewNetworkThroughput(n.Interfaces, n.Received, n.Sent, dataSizeFormat(n.LogFormat))
		if err != nil {
			return nil, err
		}
		return buildBase(c, src, dataSizeSinkBuilder, actions, checkLogger, alarmLogger)
	case config.CheckDockerContainerStatusKind:
		src := &datasource.DockerContainerStatus{SocketPath: c.DockerContainerStatus.SocketPath, Containers: c.DockerContainerStatus.Containers}
		return buildBase(c, src, binaryStateSinkBuilder, actions, checkLogger, alarmLogger)
	case config.CheckProcessOutputIntegerKind:
		p := c.ProcessOutputInteger
		re, err := compileOptionalRegex(p.OutputRegex)
		if err != nil {
			return nil, err
		}
		src, err := datasource.NewProcessOutputInteger(toProcessConfig(p.ProcessConfig), outputSource(p.OutputSource), re)
		if err != nil {
			return nil, err
		}
		return buildBase(c, src, integerSinkBuilder, actions, checkLogger, alarmLogger)
	case config.CheckProcessOutputMatchKind:
		p := c.ProcessOutputMatch
		re, err := regexp.Compile(p.OutputRegex)
		if err != nil {
			return nil, fmt.Errorf("invalid 'output_regex': %w", err)
		}
		src := datasource.NewProcessOutputMatch(toProcessConfig(p.ProcessConfig), outputSource(p.OutputSource), re, p.InvertMatch)
		return buildBase(c, src, binaryStateSinkBuilder, actions, checkLogger, alarmLogger)
	default:
		return nil, fmt.Errorf("unknown check type %q", c.Kind)
	}
}

// buildBase wires a concrete datasource.Source[T] plus its per-id
// filters and per-id alarms into a check.Base[T], the common tail of
// every buildCheck branch.
func buildBase[T any](c config.Check, src datasource.Source[T], mkSink func(config.Alarm) (sink.Sink[T], error), actions *action.Registry, checkLogger, alarmLogger zerolog.Logger) (check.Check, error) {
	ids := src.IDs()

	filters, err := buildFilters[T](c.Filter, len(ids))
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	alarms, err := buildAlarmsForIDs(ids, c.Alarms, actions, mkSink, alarmLogger)
	if err != nil {
		return nil, err
	}

	logger := checkLogger
	return &check.Base[T]{
		CheckName:     c.Name,
		CheckInterval: time.Duration(c.Interval) * time.Second,
		Timeout:       time.Duration(c.Timeout) * time.Second,
		Placeholders:  c.Placeholders,
		Source:        src,
		Filters:       filters,
		Alarms:        alarms,
		OnError: func(msg string) {
			logger.Error().Str("check", c.Name).Msg(msg)
		},
	}, nil
}

// buildFilters constructs one independent filter instance per id (a
// filter's window buffer holds per-id state, so ids never share an
// instance), grounded on filter/mod.rs's FilterFactory dispatch.
func buildFilters[T any](spec *config.FilterSpec, n int) ([]filter.Filter[T], error) {
	if spec == nil {
		return nil, nil
	}
	filters := make([]filter.Filter[T], n)
	for i := range filters {
		f, err := newFilter[T](spec.Kind, spec.WindowSize)
		if err != nil {
			return nil, err
		}
		filters[i] = f
	}
	return filters, nil
}

// newFilter dispatches on the measurement kind via a type switch on a
// throwaway zero value, since filter.NewXxxYyy constructors are keyed
// by concrete measurement type rather than a generic factory.
func newFilter[T any](kind string, size int) (filter.Filter[T], error) {
	var zero T
	switch any(zero).(type) {
	case measurement.Level:
		switch kind {
		case "Average":
			return asFilter[T](filter.NewLevelAverage(size))
		case "Peak":
			return asFilter[T](filter.NewLevelPeak(size))
		}
	case measurement.DataSize:
		switch kind {
		case "Average":
			return asFilter[T](filter.NewDataSizeAverage(size))
		case "Peak":
			return asFilter[T](filter.NewDataSizePeak(size))
		case "Sum":
			return asFilter[T](filter.NewDataSizeSum(size))
		}
	case measurement.Integer:
		switch kind {
		case "Average":
			return asFilter[T](filter.NewIntegerAverage(size))
		case "Peak":
			return asFilter[T](filter.NewIntegerPeak(size))
		case "Sum":
			return asFilter[T](filter.NewIntegerSum(size))
		}
	case measurement.Temperature:
		switch kind {
		case "Average":
			return asFilter[T](filter.NewTemperatureAverage(size))
		case "Peak":
			return asFilter[T](filter.NewTemperaturePeak(size))
		}
	}
	return nil, fmt.Errorf("filter %q is not available for this measurement kind", kind)
}

// asFilter adapts a concrete filter.Filter[U] result to the generic
// filter.Filter[T] the caller declared, which is always U==T at each
// call site above — the indirection only exists because Go generics
// can't express "T is measurement.Level" as a constraint here.
func asFilter[T any](f filter.Filter[T], err error) (filter.Filter[T], error) { return f, err }

// buildAlarmsForIDs constructs one independent alarm.Alarm[T] per
// (id, alarm config) pair — sharing the FSM or sink across ids would
// violate spec.md §5's "each alarm/FSM is owned exclusively by its
// parent check task" — mirroring check/mod.rs's factory loop over
// measurement_ids() × check_config.alarms.
func buildAlarmsForIDs[T any](ids []string, alarmCfgs []config.Alarm, actions *action.Registry, mkSink func(config.Alarm) (sink.Sink[T], error), logger zerolog.Logger) ([][]*alarm.Alarm[T], error) {
	result := make([][]*alarm.Alarm[T], len(ids))
	for i, id := range ids {
		var perID []*alarm.Alarm[T]
		for _, ac := range alarmCfgs {
			if ac.Disable {
				logger.Info().Str("alarm", ac.Name).Msg("alarm is disabled")
				continue
			}
			built, err := buildOneAlarm(id, ac, actions, mkSink, logger)
			if err != nil {
				return nil, fmt.Errorf("alarm %q: %w", ac.Name, err)
			}
			perID = append(perID, built)
		}
		result[i] = perID
	}
	return result, nil
}

func buildOneAlarm[T any](id string, ac config.Alarm, actions *action.Registry, mkSink func(config.Alarm) (sink.Sink[T], error), logger zerolog.Logger) (*alarm.Alarm[T], error) {
	s, err := mkSink(ac)
	if err != nil {
		return nil, err
	}
	fsm, err := statemachineNew(ac, id)
	if err != nil {
		return nil, err
	}
	act, err := resolveAction(actions, ac.Action, false)
	if err != nil {
		return nil, err
	}
	recoverAction, err := resolveAction(actions, ac.RecoverAction, true)
	if err != nil {
		return nil, err
	}
	errorAction, err := resolveAction(actions, ac.ErrorAction, true)
	if err != nil {
		return nil, err
	}
	errorRecoverAction, err := resolveAction(actions, ac.ErrorRecoverAction, true)
	if err != nil {
		return nil, err
	}

	name, actionName := ac.Name, ac.Action
	return &alarm.Alarm[T]{
		Name:                     name,
		ID:                       id,
		Placeholders:             ac.Placeholders,
		Invert:                   ac.Invert,
		Sink:                     s,
		FSM:                      fsm,
		Action:                   act,
		RecoverAction:            recoverAction,
		RecoverPlaceholders:      ac.RecoverPlaceholders,
		ErrorAction:              errorAction,
		ErrorPlaceholders:        ac.ErrorPlaceholders,
		ErrorRecoverAction:       errorRecoverAction,
		ErrorRecoverPlaceholders: ac.ErrorRecoverPlaceholders,
		OnActionError: func(kind, errText string) {
			logger.Error().Str("alarm", name).Str("check_id", id).Str("action", actionName).Str("kind", kind).Msg(errText)
		},
	}, nil
}

// resolveAction looks an action name up in the registry. An empty
// name is only valid when optional is true (recover/error/
// error-recover actions may be left unconfigured).
func resolveAction(actions *action.Registry, name string, optional bool) (*action.Base, error) {
	if name == "" {
		if optional {
			return nil, nil
		}
		return nil, fmt.Errorf("'action' cannot be empty")
	}
	act, ok := actions.Get(name)
	if !ok {
		return nil, fmt.Errorf("action %q is not defined", name)
	}
	return act, nil
}

func pressureChoice(s string) datasource.PressureChoice {
	switch s {
	case "Some":
		return datasource.PressureSome
	case "Full":
		return datasource.PressureFull
	case "Both":
		return datasource.PressureBoth
	default:
		return datasource.PressureNone
	}
}

func dataSizeFormat(s string) datasource.DataSizeFormat {
	switch s {
	case "Decimal":
		return datasource.DataSizeDecimal
	case "Bytes":
		return datasource.DataSizeBytes
	default:
		return datasource.DataSizeBinary
	}
}

func outputSource(s string) datasource.OutputSource {
	if s == "Stderr" {
		return datasource.OutputStderr
	}
	return datasource.OutputStdout
}

func compileOptionalRegex(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid 'output_regex': %w", err)
	}
	return re, nil
}

func toProcessConfig(p config.ProcessConfig) datasource.ProcessConfig {
	return datasource.ProcessConfig{
		Path:        p.Path,
		Arguments:   p.Arguments,
		Environment: p.Environment,
		WorkingDir:  p.WorkingDir,
		UID:         p.UID,
		GID:         p.GID,
	}
}

// statemachineNew builds the per-(id, alarm) state machine, grounded
// on statemachine.New's cycle/repeat/recover/error-repeat signature;
// logID matches the "check_id/alarm_name" pairing check/mod.rs's
// factory loop logs each built alarm under.
func statemachineNew(ac config.Alarm, id string) (*statemachine.StateMachine, error) {
	return statemachine.New(ac.CyclesOrDefault(), ac.RepeatCycles, ac.RecoverCyclesOrDefault(), ac.ErrorRepeatCycles, id+"/"+ac.Name)
}

// The sink builders below each ground one alarm/*.rs TryFrom<&config::Alarm>
// impl: a config.Alarm carries every alarm-kind's fields as mutually
// exclusive optionals (config.go's flattened AlarmType), and each
// builder below picks the one relevant to its check's measurement kind
// and validates it the way the matching Rust impl does.

func levelSinkBuilder(a config.Alarm) (sink.Sink[measurement.Level], error) {
	if a.Level == nil {
		return nil, fmt.Errorf("alarm %q: expected 'level' to be set", a.Name)
	}
	threshold, err := measurement.NewLevel(*a.Level)
	if err != nil {
		return nil, err
	}
	return sink.Level{Threshold: threshold}, nil
}

func statusCodeSinkBuilder(a config.Alarm) (sink.Sink[measurement.StatusCode], error) {
	codes := a.StatusCodes
	if len(codes) == 0 {
		codes = []uint8{0}
	}
	return sink.StatusCode{Allowed: codes}, nil
}

func temperatureSinkBuilder(a config.Alarm) (sink.Sink[measurement.Temperature], error) {
	if a.Temperature == nil {
		return nil, fmt.Errorf("alarm %q: expected 'temperature' to be set", a.Name)
	}
	threshold, err := measurement.NewTemperature(*a.Temperature)
	if err != nil {
		return nil, err
	}
	return sink.Temperature{Threshold: threshold}, nil
}

func binaryStateSinkBuilder(_ config.Alarm) (sink.Sink[measurement.BinaryState], error) {
	return sink.BinaryState{}, nil
}

func dataSizeSinkBuilder(a config.Alarm) (sink.Sink[measurement.DataSize], error) {
	if a.DataSizeBytes == nil {
		return nil, fmt.Errorf("alarm %q: expected 'data_size_bytes' to be set", a.Name)
	}
	return sink.DataSize{Max: measurement.NewDataSize(*a.DataSizeBytes)}, nil
}

func integerSinkBuilder(a config.Alarm) (sink.Sink[measurement.Integer], error) {
	var min, max *measurement.Integer
	if a.IntegerMin != nil {
		v := measurement.NewInteger(*a.IntegerMin)
		min = &v
	}
	if a.IntegerMax != nil {
		v := measurement.NewInteger(*a.IntegerMax)
		max = &v
	}
	s, err := sink.NewInteger(min, max)
	if err != nil {
		return nil, fmt.Errorf("alarm %q: %w", a.Name, err)
	}
	return s, nil
}
