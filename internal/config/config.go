// Package config decodes MinMon's TOML configuration file into typed,
// defaulted, validated Go values (spec.md §6; C12's input). Grounded
// on original_source/src/config.rs's struct shape and `mod default`
// constants, enriched with the check kinds (network throughput, docker
// container status, process-output checks) that module's sibling
// check/*.rs files reference but config.rs's retrieved snapshot
// predates (see the per-type comments below for which check/*.rs file
// grounds which struct).
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/flo-at/minmon/internal/logging"
	"github.com/flo-at/minmon/internal/placeholder"
)

// Defaults mirror config.rs's `mod default` constants, except
// DefaultCheckTimeoutSeconds which spec.md §3 states is capped at the
// check's own interval ("defaults to min(interval, 5s)") rather than
// config.rs's unconditional flat 5 — spec.md's stated invariant wins
// where the two disagree.
const (
	DefaultReportIntervalSeconds = 604800
	DefaultActionTimeoutSeconds  = 10
	DefaultCheckIntervalSeconds  = 300
	DefaultCheckTimeoutSeconds   = 5
	DefaultAlarmCycles           = 1
	DefaultAlarmRecoverCycles    = 1
)

// Config is MinMon's fully decoded, defaulted, validated configuration.
type Config struct {
	Log     Log
	Report  Report
	Actions []Action
	Checks  []Check
}

// Log mirrors config.rs's Log struct (§6 "[log]").
type Log struct {
	Level  logging.Level
	Target logging.Target
}

func (l *Log) applyDefaults() {
	if l.Level == "" {
		l.Level = logging.LevelInfo
	}
	if l.Target == "" {
		l.Target = logging.TargetStdout
	}
}

// Report mirrors config.rs's Report/ReportEvent (§6 "[report]").
type Report struct {
	Disable      bool
	Interval     uint32 // seconds; zero iff Cron is set
	Cron         string
	Placeholders placeholder.Map
	Events       []ReportEvent
}

// ReportEvent mirrors config.rs's ReportEvent.
type ReportEvent struct {
	Disable      bool            `toml:"disable"`
	Name         string          `toml:"name"`
	Action       string          `toml:"action"`
	Placeholders placeholder.Map `toml:"placeholders"`
}

func (e ReportEvent) validate() error {
	if e.Name == "" {
		return fmt.Errorf("report event: 'name' cannot be empty")
	}
	if e.Action == "" {
		return fmt.Errorf("report event %q: 'action' cannot be empty", e.Name)
	}
	return nil
}

// ActionKind selects which payload field on Action is populated,
// mirroring config.rs's `#[serde(tag = "type")] enum ActionType`.
type ActionKind string

const (
	ActionEmailKind   ActionKind = "Email"
	ActionLogKind     ActionKind = "Log"
	ActionProcessKind ActionKind = "Process"
	ActionWebhookKind ActionKind = "Webhook"
)

// Action mirrors config.rs's Action, with the tagged ActionType enum
// flattened into named optional payload fields (Go has no tagged-enum
// deserialization; BurntSushi/toml's delayed-decode primitives stand
// in for serde's `#[serde(tag = "type")]`).
type Action struct {
	Disable      bool
	Name         string
	Timeout      uint32 // seconds
	Placeholders placeholder.Map
	Kind         ActionKind

	Email   *ActionEmail
	Log     *ActionLog
	Process *ActionProcess
	Webhook *ActionWebhook
}

// ActionEmail mirrors config.rs's ActionEmail.
type ActionEmail struct {
	From         string            `toml:"from"`
	To           string            `toml:"to"`
	ReplyTo      string            `toml:"reply_to"`
	Subject      string            `toml:"subject"`
	Body         string            `toml:"body"`
	SMTPServer   string            `toml:"smtp_server"`
	SMTPPort     *uint16           `toml:"smtp_port"`
	SMTPSecurity string            `toml:"smtp_security"` // TLS (default) | STARTTLS | Plain
	Username     string            `toml:"username"`
	Password     string            `toml:"password"`
}

func (a *ActionEmail) applyDefaults() {
	if a.SMTPSecurity == "" {
		a.SMTPSecurity = "TLS"
	}
}

func (a *ActionEmail) validate(actionName string) error {
	if a.From == "" || a.To == "" || a.Subject == "" || a.SMTPServer == "" || a.Username == "" {
		return fmt.Errorf("action %q: 'from', 'to', 'subject', 'smtp_server' and 'username' are required for an Email action", actionName)
	}
	switch a.SMTPSecurity {
	case "TLS", "STARTTLS", "Plain":
	default:
		return fmt.Errorf("action %q: unknown smtp_security %q", actionName, a.SMTPSecurity)
	}
	return nil
}

// ActionLog mirrors config.rs's ActionLog.
type ActionLog struct {
	Level    logging.Level `toml:"level"`
	Template string        `toml:"template"`
}

func (a *ActionLog) applyDefaults() {
	if a.Level == "" {
		a.Level = logging.LevelInfo
	}
}

// ProcessConfig mirrors config.rs's ProcessConfig, flattened (via
// serde(flatten) in the original) onto whichever action or check
// embeds it.
type ProcessConfig struct {
	Path        string            `toml:"path"`
	Arguments   []string          `toml:"arguments"`
	Environment map[string]string `toml:"environment_variables"`
	WorkingDir  string            `toml:"working_directory"`
	UID         *uint32           `toml:"uid"`
	GID         *uint32           `toml:"gid"`
}

func (p ProcessConfig) validate(context string) error {
	if p.Path == "" {
		return fmt.Errorf("%s: 'path' cannot be empty", context)
	}
	return nil
}

// ActionProcess mirrors config.rs's ActionProcess (a flattened
// ProcessConfig with no action-specific fields of its own).
type ActionProcess struct {
	ProcessConfig
}

// ActionWebhook mirrors config.rs's ActionWebhook.
type ActionWebhook struct {
	URL     string            `toml:"url"`
	Method  string            `toml:"method"` // GET|POST(default)|PUT|DELETE|PATCH
	Headers map[string]string `toml:"headers"`
	Body    string            `toml:"body"`
}

func (w *ActionWebhook) applyDefaults() {
	if w.Method == "" {
		w.Method = "POST"
	}
}

func (w *ActionWebhook) validate(actionName string) error {
	if w.URL == "" {
		return fmt.Errorf("action %q: 'url' cannot be empty", actionName)
	}
	switch w.Method {
	case "GET", "POST", "PUT", "DELETE", "PATCH":
	default:
		return fmt.Errorf("action %q: unknown method %q", actionName, w.Method)
	}
	return nil
}

// CheckKind selects which payload field on Check is populated,
// mirroring config.rs's `#[serde(tag = "type")] enum CheckType` —
// extended with the four kinds (NetworkThroughput,
// DockerContainerStatus, ProcessOutputInteger, ProcessOutputMatch)
// that the retrieved config.rs snapshot omits from its enum but whose
// sibling check/*.rs modules (network_throughput.rs,
// docker_container_status.rs, process_output_{integer,match}.rs)
// construct from a `config::Check` of exactly this shape.
type CheckKind string

const (
	CheckFilesystemUsageKind      CheckKind = "FilesystemUsage"
	CheckMemoryUsageKind          CheckKind = "MemoryUsage"
	CheckPressureAverageKind      CheckKind = "PressureAverage"
	CheckProcessExitStatusKind    CheckKind = "ProcessExitStatus"
	CheckSystemdUnitStatusKind    CheckKind = "SystemdUnitStatus"
	CheckTemperatureKind          CheckKind = "Temperature"
	CheckNetworkThroughputKind    CheckKind = "NetworkThroughput"
	CheckDockerContainerStatusKind CheckKind = "DockerContainerStatus"
	CheckProcessOutputIntegerKind  CheckKind = "ProcessOutputInteger"
	CheckProcessOutputMatchKind    CheckKind = "ProcessOutputMatch"
)

// Check mirrors config.rs's Check.
type Check struct {
	Disable      bool
	Interval     uint32 // seconds
	Name         string
	Timeout      uint32 // seconds
	Placeholders placeholder.Map
	Filter       *FilterSpec
	Kind         CheckKind
	Alarms       []Alarm

	FilesystemUsage       *CheckFilesystemUsage
	MemoryUsage           *CheckMemoryUsage
	PressureAverage       *CheckPressureAverage
	ProcessExitStatus     *CheckProcessExitStatus
	SystemdUnitStatus     *CheckSystemdUnitStatus
	Temperature           *CheckTemperature
	NetworkThroughput     *CheckNetworkThroughput
	DockerContainerStatus *CheckDockerContainerStatus
	ProcessOutputInteger  *CheckProcessOutputInteger
	ProcessOutputMatch    *CheckProcessOutputMatch
}

// FilterSpec mirrors the filter/{average,peak,sum}.rs config structs
// (`config::FilterAverage`/`FilterPeak`/`FilterSum`, each wrapping a
// `FilterWindowConfig{window_size}`) flattened into one tagged struct —
// config.rs's retrieved snapshot has no `Filter` type at all, so this
// is grounded directly on the filter/*.rs call sites instead.
type FilterSpec struct {
	Kind       string `toml:"type"` // Average | Peak | Sum
	WindowSize int    `toml:"window_size"`
}

func (f FilterSpec) validate() error {
	if f.WindowSize <= 0 {
		return fmt.Errorf("filter: 'window_size' must be > 0")
	}
	switch f.Kind {
	case "Average", "Peak", "Sum":
		return nil
	default:
		return fmt.Errorf("filter: unknown type %q", f.Kind)
	}
}

// CheckFilesystemUsage mirrors config.rs's CheckFilesystemUsage.
type CheckFilesystemUsage struct {
	Mountpoints []string `toml:"mountpoints"`
}

// CheckMemoryUsage mirrors config.rs's CheckMemoryUsage.
type CheckMemoryUsage struct {
	Memory bool `toml:"memory"`
	Swap   bool `toml:"swap"`
}

// CheckPressureAverage mirrors config.rs's CheckPressureAverage.
type CheckPressureAverage struct {
	CPU    bool   `toml:"cpu"`
	IO     string `toml:"io"`     // None(default)|Some|Full|Both
	Memory string `toml:"memory"` // None(default)|Some|Full|Both
	Avg10  bool   `toml:"avg10"`
	Avg60  bool   `toml:"avg60"`
	Avg300 bool   `toml:"avg300"`
}

// CheckProcessExitStatus mirrors config.rs's CheckProcessExitStatus.
type CheckProcessExitStatus struct {
	ProcessConfig
}

// CheckSystemdUnitStatus mirrors config.rs's CheckSystemdUnitStatus.
type CheckSystemdUnitStatus struct {
	Units []SystemdUnitConfig `toml:"units"`
}

// SystemdUnitConfig mirrors config.rs's untagged `SystemdUnitConfig`
// enum (a plain string names a system unit; a table names a user
// unit). BurntSushi/toml's Unmarshaler interface stands in for serde's
// `#[serde(untagged)]`.
type SystemdUnitConfig struct {
	Unit string
	UID  uint32 // 0 for a system unit
}

func (u *SystemdUnitConfig) UnmarshalTOML(data interface{}) error {
	switch v := data.(type) {
	case string:
		u.Unit = v
		return nil
	case map[string]interface{}:
		unit, ok := v["unit"].(string)
		if !ok || unit == "" {
			return fmt.Errorf("systemd unit: table form requires a non-empty 'unit'")
		}
		u.Unit = unit
		if rawUID, ok := v["uid"]; ok {
			uid, ok := rawUID.(int64)
			if !ok {
				return fmt.Errorf("systemd unit %q: 'uid' must be an integer", unit)
			}
			u.UID = uint32(uid)
		}
		return nil
	default:
		return fmt.Errorf("systemd unit: expected a string or table, got %T", data)
	}
}

// CheckTemperature mirrors config.rs's CheckTemperature.
type CheckTemperature struct {
	Sensors []SensorConfig `toml:"sensors"`
}

// SensorConfig mirrors config.rs's untagged `SensorsId` enum (a plain
// string names a whole hwmon chip; a table narrows to one labeled
// input on that chip).
type SensorConfig struct {
	Sensor string
	Label  string // empty means "no label restriction"
}

func (s SensorConfig) String() string {
	if s.Label == "" {
		return s.Sensor
	}
	return fmt.Sprintf("%s[%s]", s.Sensor, s.Label)
}

func (s *SensorConfig) UnmarshalTOML(data interface{}) error {
	switch v := data.(type) {
	case string:
		s.Sensor = v
		return nil
	case map[string]interface{}:
		sensor, _ := v["sensor"].(string)
		label, _ := v["label"].(string)
		if sensor == "" || label == "" {
			return fmt.Errorf("sensor: table form requires both 'sensor' and 'label'")
		}
		s.Sensor, s.Label = sensor, label
		return nil
	default:
		return fmt.Errorf("sensor: expected a string or table, got %T", data)
	}
}

// CheckNetworkThroughput mirrors network_throughput.rs's configuration
// access pattern (`.received`, `.sent`, `.log_format`).
type CheckNetworkThroughput struct {
	Interfaces []string `toml:"interfaces"`
	Received   bool     `toml:"received"`
	Sent       bool     `toml:"sent"`
	LogFormat  string   `toml:"log_format"` // Binary(default)|Decimal|Bytes
}

func (c *CheckNetworkThroughput) applyDefaults() {
	if c.LogFormat == "" {
		c.LogFormat = "Binary"
	}
}

// CheckDockerContainerStatus mirrors docker_container_status.rs's
// configuration access pattern (`.socket_path`, `.containers`).
type CheckDockerContainerStatus struct {
	SocketPath string   `toml:"socket_path"`
	Containers []string `toml:"containers"`
}

// CheckProcessOutputInteger mirrors process_output_integer.rs's
// configuration access pattern.
type CheckProcessOutputInteger struct {
	ProcessConfig
	OutputSource string `toml:"output_source"` // Stdout|Stderr
	OutputRegex  string `toml:"output_regex"`
}

// CheckProcessOutputMatch mirrors process_output_match.rs's
// configuration access pattern.
type CheckProcessOutputMatch struct {
	ProcessConfig
	OutputSource string `toml:"output_source"` // Stdout|Stderr
	OutputRegex  string `toml:"output_regex"`
	InvertMatch  bool   `toml:"invert_match"`
}

// Alarm mirrors config.rs's Alarm, with the untagged AlarmType enum
// flattened into optional payload fields (Level/StatusCodes/
// Temperature; the absence of all three is AlarmDefault — a sink kind
// with no configuration of its own, e.g. BinaryState).
//
// ErrorRecoverAction/ErrorRecoverPlaceholders have no counterpart in
// config.rs's Alarm struct at all; spec.md §3's Alarm data model names
// them explicitly, so they're added here as a SPEC_FULL.md-only field
// pair.
type Alarm struct {
	Disable      bool            `toml:"disable"`
	Name         string          `toml:"name"`
	Action       string          `toml:"action"`
	Placeholders placeholder.Map `toml:"placeholders"`
	Cycles       *uint32         `toml:"cycles"`
	RepeatCycles uint32          `toml:"repeat_cycles"`

	RecoverAction       string          `toml:"recover_action"`
	RecoverPlaceholders placeholder.Map `toml:"recover_placeholders"`
	RecoverCycles       *uint32         `toml:"recover_cycles"`

	ErrorAction       string          `toml:"error_action"`
	ErrorPlaceholders placeholder.Map `toml:"error_placeholders"`
	ErrorRepeatCycles uint32          `toml:"error_repeat_cycles"`

	ErrorRecoverAction       string          `toml:"error_recover_action"`
	ErrorRecoverPlaceholders placeholder.Map `toml:"error_recover_placeholders"`

	Invert bool `toml:"invert"`

	Level       *uint8  `toml:"level"`
	StatusCodes []uint8 `toml:"status_codes"`
	Temperature *int16  `toml:"temperature"`

	// DataSizeBytes and Integer{Min,Max} ground the AlarmType::DataSize
	// and AlarmType::Integer variants that alarm/data_size.rs and
	// alarm/integer.rs construct from config::Alarm — variants the
	// retrieved config.rs snapshot's AlarmType enum omits entirely
	// (it only defines Default/StatusCode/Level/Temperature), so these
	// two field names are grounded on the Rust sink's own field/accessor
	// names (`data_size.bytes()`, `integer.min`/`integer.max`) rather
	// than a config.rs declaration.
	DataSizeBytes *uint64 `toml:"data_size_bytes"`
	IntegerMin    *int64  `toml:"integer_min"`
	IntegerMax    *int64  `toml:"integer_max"`
}

// CyclesOrDefault returns the configured bad-cycle threshold, applying
// config.rs's CHECK_ALARM_CYCLES default.
func (a Alarm) CyclesOrDefault() uint32 {
	if a.Cycles != nil {
		return *a.Cycles
	}
	return DefaultAlarmCycles
}

// RecoverCyclesOrDefault returns the configured good-cycle threshold,
// applying config.rs's CHECK_ALARM_RECOVER_CYCLES default.
func (a Alarm) RecoverCyclesOrDefault() uint32 {
	if a.RecoverCycles != nil {
		return *a.RecoverCycles
	}
	return DefaultAlarmRecoverCycles
}

func (a Alarm) validate() error {
	if a.Name == "" {
		return fmt.Errorf("'name' cannot be empty")
	}
	if a.Action == "" {
		return fmt.Errorf("alarm %q: 'action' cannot be empty", a.Name)
	}
	kinds := 0
	if a.Level != nil {
		kinds++
	}
	if len(a.StatusCodes) > 0 {
		kinds++
	}
	if a.Temperature != nil {
		kinds++
	}
	if a.DataSizeBytes != nil {
		kinds++
	}
	if a.IntegerMin != nil || a.IntegerMax != nil {
		kinds++
	}
	if kinds > 1 {
		return fmt.Errorf("alarm %q: only one of 'level', 'status_codes', 'temperature', 'data_size_bytes', 'integer_min'/'integer_max' may be set", a.Name)
	}
	if a.Cycles != nil && *a.Cycles == 0 {
		return fmt.Errorf("alarm %q: 'cycles' cannot be 0", a.Name)
	}
	if a.RecoverCycles != nil && *a.RecoverCycles == 0 {
		return fmt.Errorf("alarm %q: 'recover_cycles' cannot be 0", a.Name)
	}
	return nil
}

// Load reads and parses the TOML configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	return Parse(string(data))
}

// document is the first-pass decode target: Action/Check entries stay
// as toml.Primitive until their 'type' field is known, matching
// serde's two-phase tagged-enum dispatch with BurntSushi/toml's
// delayed decoding.
type document struct {
	Log     Log              `toml:"log"`
	Report  rawReport        `toml:"report"`
	Actions []toml.Primitive `toml:"actions"`
	Checks  []toml.Primitive `toml:"checks"`
}

type rawReport struct {
	Disable      bool            `toml:"disable"`
	Interval     uint32          `toml:"interval"`
	Cron         string          `toml:"cron"`
	Placeholders placeholder.Map `toml:"placeholders"`
	Events       []ReportEvent   `toml:"events"`
}

// Parse decodes and validates a TOML document, grounded on
// config.rs's `Config::try_from(&str)`.
func Parse(data string) (*Config, error) {
	var doc document
	md, err := toml.Decode(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}

	cfg := &Config{Log: doc.Log}
	cfg.Log.applyDefaults()

	report, err := buildReport(doc.Report, md)
	if err != nil {
		return nil, err
	}
	cfg.Report = report

	for i, raw := range doc.Actions {
		action, err := decodeAction(md, raw)
		if err != nil {
			return nil, fmt.Errorf("actions[%d]: %w", i, err)
		}
		cfg.Actions = append(cfg.Actions, *action)
	}

	for i, raw := range doc.Checks {
		check, err := decodeCheck(md, raw)
		if err != nil {
			return nil, fmt.Errorf("checks[%d]: %w", i, err)
		}
		cfg.Checks = append(cfg.Checks, *check)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown configuration fields: %s", strings.Join(keys, ", "))
	}

	if err := cfg.validateUniqueness(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// buildReport resolves the interval/cron mutual exclusivity (spec.md
// §3's `when: interval(>0) | cronSchedule`) and the `[report]`
// whole-table-vs-field default interaction: config.rs only falls back
// to `Report::default()` (disable=true) when the `[report]` table is
// absent entirely — an explicit-but-empty `[report]` table leaves
// `disable` at its own per-field default of `false`.
func buildReport(raw rawReport, md toml.MetaData) (Report, error) {
	reportTableSet := md.IsDefined("report")
	intervalSet := md.IsDefined("report", "interval")
	cronSet := md.IsDefined("report", "cron")

	if intervalSet && cronSet {
		return Report{}, fmt.Errorf("report: 'interval' and 'cron' cannot both be set")
	}

	disable := raw.Disable
	interval := raw.Interval
	if !reportTableSet {
		disable = true
	}
	if !intervalSet && !cronSet {
		interval = DefaultReportIntervalSeconds
	} else if intervalSet && interval == 0 {
		return Report{}, fmt.Errorf("report: 'interval' cannot be 0")
	}

	for i, e := range raw.Events {
		if err := e.validate(); err != nil {
			return Report{}, fmt.Errorf("report events[%d]: %w", i, err)
		}
	}

	return Report{
		Disable:      disable,
		Interval:     interval,
		Cron:         raw.Cron,
		Placeholders: raw.Placeholders,
		Events:       raw.Events,
	}, nil
}

type actionCommon struct {
	Disable      bool            `toml:"disable"`
	Name         string          `toml:"name"`
	Timeout      *uint32         `toml:"timeout"`
	Placeholders placeholder.Map `toml:"placeholders"`
	Type         string          `toml:"type"`
}

func decodeAction(md toml.MetaData, raw toml.Primitive) (*Action, error) {
	var common actionCommon
	if err := md.PrimitiveDecode(raw, &common); err != nil {
		return nil, err
	}
	if common.Name == "" {
		return nil, fmt.Errorf("'name' cannot be empty")
	}

	timeout := uint32(DefaultActionTimeoutSeconds)
	if common.Timeout != nil {
		timeout = *common.Timeout
	}

	action := &Action{
		Disable:      common.Disable,
		Name:         common.Name,
		Timeout:      timeout,
		Placeholders: common.Placeholders,
		Kind:         ActionKind(common.Type),
	}

	switch action.Kind {
	case ActionEmailKind:
		var payload ActionEmail
		if err := md.PrimitiveDecode(raw, &payload); err != nil {
			return nil, err
		}
		payload.applyDefaults()
		if err := payload.validate(common.Name); err != nil {
			return nil, err
		}
		action.Email = &payload
	case ActionLogKind:
		var payload ActionLog
		if err := md.PrimitiveDecode(raw, &payload); err != nil {
			return nil, err
		}
		payload.applyDefaults()
		if payload.Template == "" {
			return nil, fmt.Errorf("action %q: 'template' cannot be empty", common.Name)
		}
		action.Log = &payload
	case ActionProcessKind:
		var payload ActionProcess
		if err := md.PrimitiveDecode(raw, &payload); err != nil {
			return nil, err
		}
		if err := payload.ProcessConfig.validate(fmt.Sprintf("action %q", common.Name)); err != nil {
			return nil, err
		}
		action.Process = &payload
	case ActionWebhookKind:
		var payload ActionWebhook
		if err := md.PrimitiveDecode(raw, &payload); err != nil {
			return nil, err
		}
		payload.applyDefaults()
		if err := payload.validate(common.Name); err != nil {
			return nil, err
		}
		action.Webhook = &payload
	default:
		return nil, fmt.Errorf("action %q: unknown type %q", common.Name, common.Type)
	}

	return action, nil
}

type checkCommon struct {
	Disable      bool            `toml:"disable"`
	Interval     *uint32         `toml:"interval"`
	Name         string          `toml:"name"`
	Timeout      *uint32         `toml:"timeout"`
	Placeholders placeholder.Map `toml:"placeholders"`
	Type         string          `toml:"type"`
	Alarms       []Alarm         `toml:"alarms"`
	Filter       *FilterSpec     `toml:"filter"`
}

func decodeCheck(md toml.MetaData, raw toml.Primitive) (*Check, error) {
	var common checkCommon
	if err := md.PrimitiveDecode(raw, &common); err != nil {
		return nil, err
	}
	if common.Name == "" {
		return nil, fmt.Errorf("'name' cannot be empty")
	}

	interval := uint32(DefaultCheckIntervalSeconds)
	if common.Interval != nil {
		interval = *common.Interval
	}
	if interval == 0 {
		return nil, fmt.Errorf("check %q: 'interval' cannot be 0", common.Name)
	}

	timeout := interval
	if timeout > DefaultCheckTimeoutSeconds {
		timeout = DefaultCheckTimeoutSeconds
	}
	if common.Timeout != nil {
		timeout = *common.Timeout
	}
	if timeout == 0 || timeout > interval {
		return nil, fmt.Errorf("check %q: 'timeout' must be > 0 and <= 'interval'", common.Name)
	}

	for i, a := range common.Alarms {
		if err := a.validate(); err != nil {
			return nil, fmt.Errorf("check %q alarms[%d]: %w", common.Name, i, err)
		}
	}

	if common.Filter != nil {
		if err := common.Filter.validate(); err != nil {
			return nil, fmt.Errorf("check %q: %w", common.Name, err)
		}
	}

	check := &Check{
		Disable:      common.Disable,
		Interval:     interval,
		Name:         common.Name,
		Timeout:      timeout,
		Placeholders: common.Placeholders,
		Filter:       common.Filter,
		Kind:         CheckKind(common.Type),
		Alarms:       common.Alarms,
	}

	context := fmt.Sprintf("check %q", common.Name)
	switch check.Kind {
	case CheckFilesystemUsageKind:
		var payload CheckFilesystemUsage
		if err := md.PrimitiveDecode(raw, &payload); err != nil {
			return nil, err
		}
		if len(payload.Mountpoints) == 0 {
			return nil, fmt.Errorf("%s: 'mountpoints' cannot be empty", context)
		}
		check.FilesystemUsage = &payload
	case CheckMemoryUsageKind:
		var payload CheckMemoryUsage
		if err := md.PrimitiveDecode(raw, &payload); err != nil {
			return nil, err
		}
		if !payload.Memory && !payload.Swap {
			return nil, fmt.Errorf("%s: at least one of 'memory' or 'swap' must be enabled", context)
		}
		check.MemoryUsage = &payload
	case CheckPressureAverageKind:
		var payload CheckPressureAverage
		if err := md.PrimitiveDecode(raw, &payload); err != nil {
			return nil, err
		}
		check.PressureAverage = &payload
	case CheckProcessExitStatusKind:
		var payload CheckProcessExitStatus
		if err := md.PrimitiveDecode(raw, &payload); err != nil {
			return nil, err
		}
		if err := payload.ProcessConfig.validate(context); err != nil {
			return nil, err
		}
		check.ProcessExitStatus = &payload
	case CheckSystemdUnitStatusKind:
		var payload CheckSystemdUnitStatus
		if err := md.PrimitiveDecode(raw, &payload); err != nil {
			return nil, err
		}
		if len(payload.Units) == 0 {
			return nil, fmt.Errorf("%s: 'units' cannot be empty", context)
		}
		check.SystemdUnitStatus = &payload
	case CheckTemperatureKind:
		var payload CheckTemperature
		if err := md.PrimitiveDecode(raw, &payload); err != nil {
			return nil, err
		}
		if len(payload.Sensors) == 0 {
			return nil, fmt.Errorf("%s: 'sensors' cannot be empty", context)
		}
		check.Temperature = &payload
	case CheckNetworkThroughputKind:
		var payload CheckNetworkThroughput
		if err := md.PrimitiveDecode(raw, &payload); err != nil {
			return nil, err
		}
		payload.applyDefaults()
		if !payload.Received && !payload.Sent {
			return nil, fmt.Errorf("%s: at least one of 'received' or 'sent' must be enabled", context)
		}
		check.NetworkThroughput = &payload
	case CheckDockerContainerStatusKind:
		var payload CheckDockerContainerStatus
		if err := md.PrimitiveDecode(raw, &payload); err != nil {
			return nil, err
		}
		if len(payload.Containers) == 0 {
			return nil, fmt.Errorf("%s: 'containers' cannot be empty", context)
		}
		check.DockerContainerStatus = &payload
	case CheckProcessOutputIntegerKind:
		var payload CheckProcessOutputInteger
		if err := md.PrimitiveDecode(raw, &payload); err != nil {
			return nil, err
		}
		if err := payload.ProcessConfig.validate(context); err != nil {
			return nil, err
		}
		check.ProcessOutputInteger = &payload
	case CheckProcessOutputMatchKind:
		var payload CheckProcessOutputMatch
		if err := md.PrimitiveDecode(raw, &payload); err != nil {
			return nil, err
		}
		if err := payload.ProcessConfig.validate(context); err != nil {
			return nil, err
		}
		if payload.OutputRegex == "" {
			return nil, fmt.Errorf("%s: 'output_regex' cannot be empty", context)
		}
		check.ProcessOutputMatch = &payload
	default:
		return nil, fmt.Errorf("%s: unknown type %q", context, common.Type)
	}

	return check, nil
}

// validateUniqueness enforces the data model's uniqueness invariants:
// check names, action names, and alarm names within a check.
func (c *Config) validateUniqueness() error {
	actionNames := make(map[string]bool, len(c.Actions))
	for _, a := range c.Actions {
		if actionNames[a.Name] {
			return fmt.Errorf("duplicate action name %q", a.Name)
		}
		actionNames[a.Name] = true
	}

	checkNames := make(map[string]bool, len(c.Checks))
	for _, ch := range c.Checks {
		if checkNames[ch.Name] {
			return fmt.Errorf("duplicate check name %q", ch.Name)
		}
		checkNames[ch.Name] = true

		alarmNames := make(map[string]bool, len(ch.Alarms))
		for _, a := range ch.Alarms {
			if alarmNames[a.Name] {
				return fmt.Errorf("check %q: duplicate alarm name %q", ch.Name, a.Name)
			}
			alarmNames[a.Name] = true
		}
	}
	return nil
}
