package datasource

import (
	"context"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/flo-at/minmon/internal/measurement"
)

// FilesystemUsage reports used-space percentage per configured mountpoint.
type FilesystemUsage struct {
	Mountpoints []string
}

// NewFilesystemUsage validates the mountpoint list.
func NewFilesystemUsage(mountpoints []string) (*FilesystemUsage, error) {
	for _, m := range mountpoints {
		if m == "" {
			return nil, fmt.Errorf("'mountpoints' cannot contain empty paths")
		}
	}
	return &FilesystemUsage{Mountpoints: mountpoints}, nil
}

func (f *FilesystemUsage) IDs() []string { return f.Mountpoints }

func (f *FilesystemUsage) Get(_ context.Context) []Sample[measurement.Level] {
	res := make([]Sample[measurement.Level], 0, len(f.Mountpoints))
	for _, mountpoint := range f.Mountpoints {
		var stat unix.Statfs_t
		if err := unix.Statfs(mountpoint, &stat); err != nil {
			res = append(res, Failed[measurement.Level](fmt.Errorf("call to 'statfs' failed: %w", err)))
			continue
		}
		if stat.Blocks == 0 {
			res = append(res, Failed[measurement.Level](fmt.Errorf("filesystem at %q reports zero blocks", mountpoint)))
			continue
		}
		usage := (stat.Blocks - stat.Bavail) * 100 / stat.Blocks
		level, err := measurement.NewLevel(uint8(usage))
		if err != nil {
			res = append(res, Failed[measurement.Level](err))
			continue
		}
		res = append(res, Ok(level))
	}
	return res
}
