package datasource

import (
	"context"
	"fmt"

	"github.com/docker/docker/client"

	"github.com/flo-at/minmon/internal/measurement"
)

// DockerContainerStatus reports whether each named container is both
// running and (if it has a healthcheck) healthy.
type DockerContainerStatus struct {
	SocketPath string
	Containers []string
}

func (d *DockerContainerStatus) IDs() []string { return d.Containers }

func (d *DockerContainerStatus) Get(ctx context.Context) []Sample[measurement.BinaryState] {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if d.SocketPath != "" {
		opts = append(opts, client.WithHost("unix://"+d.SocketPath))
	}
	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		failure := Failed[measurement.BinaryState](fmt.Errorf("could not create docker client: %w", err))
		res := make([]Sample[measurement.BinaryState], len(d.Containers))
		for i := range res {
			res[i] = failure
		}
		return res
	}
	defer cli.Close()

	res := make([]Sample[measurement.BinaryState], 0, len(d.Containers))
	for _, container := range d.Containers {
		res = append(res, d.checkContainer(ctx, cli, container))
	}
	return res
}

func (d *DockerContainerStatus) checkContainer(ctx context.Context, cli *client.Client, container string) Sample[measurement.BinaryState] {
	info, err := cli.ContainerInspect(ctx, container)
	if err != nil {
		return Failed[measurement.BinaryState](fmt.Errorf("docker error: %w", err))
	}
	if info.State == nil {
		return Failed[measurement.BinaryState](fmt.Errorf("could not read container state"))
	}
	running := info.State.Status == "running"
	healthy := true
	if info.State.Health != nil {
		status := info.State.Health.Status
		healthy = status == "healthy" || status == "none" || status == ""
	}
	return Ok(measurement.NewBinaryState(running && healthy))
}
