package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flo-at/minmon/internal/logging"
)

// TestParseDefaults adapts config.rs's test_from_str_defaults: an
// empty document fills in every default, and in particular the
// report's whole-table-absent quirk (see buildReport) yields
// Disable==true even though the zero value of bool is false.
func TestParseDefaults(t *testing.T) {
	cfg, err := Parse("")
	require.NoError(t, err)

	assert.Equal(t, logging.LevelInfo, cfg.Log.Level)
	assert.Equal(t, logging.TargetStdout, cfg.Log.Target)

	assert.True(t, cfg.Report.Disable)
	assert.EqualValues(t, DefaultReportIntervalSeconds, cfg.Report.Interval)
	assert.Empty(t, cfg.Report.Events)

	assert.Empty(t, cfg.Actions)
	assert.Empty(t, cfg.Checks)
}

// TestParseReportTablePresentButEmpty confirms the other half of the
// quirk: once [report] is present at all, disable falls back to its
// own field-level zero value (false), not Report::default()'s true.
func TestParseReportTablePresentButEmpty(t *testing.T) {
	cfg, err := Parse(`
[report]
`)
	require.NoError(t, err)
	assert.False(t, cfg.Report.Disable)
	assert.EqualValues(t, DefaultReportIntervalSeconds, cfg.Report.Interval)
}

// TestParseNonDefaults adapts config.rs's test_from_str_non_defaults.
func TestParseNonDefaults(t *testing.T) {
	text := `
[log]
level = "Error"
target = "Journal"

[report]
disable = true
interval = 12345

[[report.events]]
disable = true
name = "report-event"
action = "report-action"

[[actions]]
disable = true
name = "test-action"
type = "Webhook"
url = "http://example.com/webhook"
method = "GET"
headers = {"Content-Type" = "application/json"}
timeout = 5
body = """{"name": "{{ name }}"}"""

[[checks]]
disable = true
name = "test-check"
type = "FilesystemUsage"
mountpoints = ["/home", "/srv"]

[[checks.alarms]]
disable = true
name = "test-alarm"
level = 75
cycles = 3
action = "test-action"
repeat_cycles = 600
recover_cycles = 4
recover_action = "test-action"
`
	cfg, err := Parse(text)
	require.NoError(t, err)

	assert.Equal(t, logging.LevelError, cfg.Log.Level)
	assert.Equal(t, logging.TargetJournal, cfg.Log.Target)

	assert.True(t, cfg.Report.Disable)
	assert.EqualValues(t, 12345, cfg.Report.Interval)
	require.Len(t, cfg.Report.Events, 1)
	event := cfg.Report.Events[0]
	assert.True(t, event.Disable)
	assert.Equal(t, "report-event", event.Name)
	assert.Equal(t, "report-action", event.Action)

	require.Len(t, cfg.Actions, 1)
	action := cfg.Actions[0]
	assert.True(t, action.Disable)
	assert.Equal(t, "test-action", action.Name)
	assert.EqualValues(t, 5, action.Timeout)
	require.NotNil(t, action.Webhook)
	assert.Equal(t, "http://example.com/webhook", action.Webhook.URL)
	assert.Equal(t, "GET", action.Webhook.Method)
	assert.Equal(t, "application/json", action.Webhook.Headers["Content-Type"])
	assert.Equal(t, `{"name": "{{ name }}"}`, action.Webhook.Body)

	require.Len(t, cfg.Checks, 1)
	check := cfg.Checks[0]
	assert.True(t, check.Disable)
	assert.Equal(t, "test-check", check.Name)
	require.NotNil(t, check.FilesystemUsage)
	assert.Equal(t, []string{"/home", "/srv"}, check.FilesystemUsage.Mountpoints)

	require.Len(t, check.Alarms, 1)
	alarm := check.Alarms[0]
	assert.True(t, alarm.Disable)
	assert.Equal(t, "test-alarm", alarm.Name)
	require.NotNil(t, alarm.Level)
	assert.EqualValues(t, 75, *alarm.Level)
	assert.EqualValues(t, 3, alarm.CyclesOrDefault())
	assert.Equal(t, "test-action", alarm.Action)
	assert.EqualValues(t, 600, alarm.RepeatCycles)
	assert.EqualValues(t, 4, alarm.RecoverCyclesOrDefault())
	assert.Equal(t, "test-action", alarm.RecoverAction)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse(`
[log]
level = "Info"
bogus_field = true
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown configuration fields")
}

func TestParseRejectsIntervalAndCronTogether(t *testing.T) {
	_, err := Parse(`
[report]
interval = 100
cron = "0 0 * * * *"
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interval")
}

func TestParseRejectsDuplicateCheckNames(t *testing.T) {
	text := `
[[checks]]
name = "dup"
type = "MemoryUsage"
memory = true

[[checks]]
name = "dup"
type = "MemoryUsage"
memory = true
`
	_, err := Parse(text)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate check name")
}

func TestParseCheckTimeoutDefaultsToMinOfIntervalAndFive(t *testing.T) {
	// interval below the flat 5s cap: timeout follows interval (spec.md's
	// min(interval, 5s), overriding config.rs's unconditional constant).
	cfg, err := Parse(`
[[checks]]
name = "fast"
interval = 2
type = "MemoryUsage"
memory = true
`)
	require.NoError(t, err)
	require.Len(t, cfg.Checks, 1)
	assert.EqualValues(t, 2, cfg.Checks[0].Timeout)

	cfg, err = Parse(`
[[checks]]
name = "slow"
interval = 60
type = "MemoryUsage"
memory = true
`)
	require.NoError(t, err)
	require.Len(t, cfg.Checks, 1)
	assert.EqualValues(t, DefaultCheckTimeoutSeconds, cfg.Checks[0].Timeout)
}

func TestParseSystemdUnitUntaggedForms(t *testing.T) {
	text := `
[[checks]]
name = "units"
type = "SystemdUnitStatus"
units = ["system.service", {unit = "user.service", uid = 1000}]
`
	cfg, err := Parse(text)
	require.NoError(t, err)
	require.NotNil(t, cfg.Checks[0].SystemdUnitStatus)
	units := cfg.Checks[0].SystemdUnitStatus.Units
	require.Len(t, units, 2)
	assert.Equal(t, "system.service", units[0].Unit)
	assert.EqualValues(t, 0, units[0].UID)
	assert.Equal(t, "user.service", units[1].Unit)
	assert.EqualValues(t, 1000, units[1].UID)
}

func TestParseSensorUntaggedForms(t *testing.T) {
	text := `
[[checks]]
name = "temps"
type = "Temperature"
sensors = ["coretemp-isa-0000", {sensor = "coretemp-isa-0000", label = "Package id 0"}]

[[checks.alarms]]
name = "hot"
action = "test-action"
temperature = 80
`
	cfg, err := Parse(text)
	require.NoError(t, err)
	require.NotNil(t, cfg.Checks[0].Temperature)
	sensors := cfg.Checks[0].Temperature.Sensors
	require.Len(t, sensors, 2)
	assert.Equal(t, "coretemp-isa-0000", sensors[0].Sensor)
	assert.Empty(t, sensors[0].Label)
	assert.Equal(t, "Package id 0", sensors[1].Label)

	require.Len(t, cfg.Checks[0].Alarms, 1)
	require.NotNil(t, cfg.Checks[0].Alarms[0].Temperature)
	assert.EqualValues(t, 80, *cfg.Checks[0].Alarms[0].Temperature)
}

func TestParseNetworkThroughputDefaultsLogFormat(t *testing.T) {
	cfg, err := Parse(`
[[checks]]
name = "net"
type = "NetworkThroughput"
interfaces = ["eth0"]
received = true
`)
	require.NoError(t, err)
	require.NotNil(t, cfg.Checks[0].NetworkThroughput)
	assert.Equal(t, "Binary", cfg.Checks[0].NetworkThroughput.LogFormat)
}

func TestParseFilterSpec(t *testing.T) {
	cfg, err := Parse(`
[[checks]]
name = "filtered"
type = "MemoryUsage"
memory = true

[checks.filter]
type = "Average"
window_size = 5
`)
	require.NoError(t, err)
	require.NotNil(t, cfg.Checks[0].Filter)
	assert.Equal(t, "Average", cfg.Checks[0].Filter.Kind)
	assert.Equal(t, 5, cfg.Checks[0].Filter.WindowSize)
}

func TestParseAlarmRejectsMultipleTypeFields(t *testing.T) {
	_, err := Parse(`
[[checks]]
name = "bad"
type = "MemoryUsage"
memory = true

[[checks.alarms]]
name = "ambiguous"
action = "test-action"
level = 50
temperature = 60
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only one of")
}
