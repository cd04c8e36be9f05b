package datasource

import (
	"context"
	"fmt"
	"os/exec"
	"syscall"

	"github.com/flo-at/minmon/internal/measurement"
)

const systemctlBinary = "/usr/bin/systemctl"

const (
	systemctlStatusNotActive  = 3
	systemctlStatusNoSuchUnit = 4
)

// SystemdUnit identifies one unit to check, optionally under a given
// user's systemd --user instance (uid != 0).
type SystemdUnit struct {
	Unit string
	UID  uint32
}

// SystemdUnitStatus reports whether each configured systemd unit is
// active, by shelling out to systemctl (reusing the same process
// plumbing the rest of the daemon uses rather than binding libdbus).
type SystemdUnitStatus struct {
	Units []SystemdUnit

	ids []string
}

// NewSystemdUnitStatus derives ids matching "<unit>" for system units
// and "<unit>[<uid>]" for user units.
func NewSystemdUnitStatus(units []SystemdUnit) *SystemdUnitStatus {
	ids := make([]string, len(units))
	for i, u := range units {
		if u.UID != 0 {
			ids[i] = fmt.Sprintf("%s[%d]", u.Unit, u.UID)
		} else {
			ids[i] = u.Unit
		}
	}
	return &SystemdUnitStatus{Units: units, ids: ids}
}

func (s *SystemdUnitStatus) IDs() []string { return s.ids }

func (s *SystemdUnitStatus) Get(ctx context.Context) []Sample[measurement.BinaryState] {
	res := make([]Sample[measurement.BinaryState], 0, len(s.Units))
	for _, u := range s.Units {
		res = append(res, s.checkUnit(ctx, u))
	}
	return res
}

func (s *SystemdUnitStatus) checkUnit(ctx context.Context, u SystemdUnit) Sample[measurement.BinaryState] {
	args := []string{"status"}
	if u.UID != 0 {
		args = append(args, "--user")
	}
	args = append(args, u.Unit)

	cmd := exec.CommandContext(ctx, systemctlBinary, args...)
	if u.UID != 0 {
		cmd.SysProcAttr = &syscall.SysProcAttr{Credential: &syscall.Credential{Uid: u.UID}}
	}
	err := cmd.Run()

	code := 0
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return Failed[measurement.BinaryState](fmt.Errorf("failed to run systemctl: %w", err))
		}
		code = exitErr.ExitCode()
	}

	switch code {
	case 0:
		return Ok(measurement.NewBinaryState(true))
	case systemctlStatusNotActive:
		return Ok(measurement.NewBinaryState(false))
	case systemctlStatusNoSuchUnit:
		return Failed[measurement.BinaryState](fmt.Errorf("no such unit"))
	default:
		return Failed[measurement.BinaryState](fmt.Errorf("unknown error code %d", code))
	}
}
