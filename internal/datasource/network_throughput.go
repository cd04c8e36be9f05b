package datasource

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/flo-at/minmon/internal/measurement"
)

// DataSizeFormat is the configured log format of a NetworkThroughput
// check. It is stored on the source only: Get does not read it, and
// the data size sink always emits the raw, binary and decimal forms.
type DataSizeFormat int

const (
	DataSizeBinary DataSizeFormat = iota
	DataSizeDecimal
	DataSizeBytes
)

// NetworkThroughput reports the per-interval delta of rx/tx byte
// counters read from sysfs, handling 64-bit counter wrap-around.
type NetworkThroughput struct {
	Interfaces []string
	Received   bool
	Sent       bool
	LogFormat  DataSizeFormat

	ids         []string
	lastReceived []wrappingCounter
	lastSent     []wrappingCounter
}

// NewNetworkThroughput validates that at least one direction is enabled.
func NewNetworkThroughput(interfaces []string, received, sent bool, format DataSizeFormat) (*NetworkThroughput, error) {
	if !received && !sent {
		return nil, fmt.Errorf("at least one of 'received' or 'sent' needs to be enabled")
	}
	var ids []string
	for _, iface := range interfaces {
		if received {
			ids = append(ids, iface+"[rx]")
		}
		if sent {
			ids = append(ids, iface+"[tx]")
		}
	}
	return &NetworkThroughput{
		Interfaces: interfaces, Received: received, Sent: sent, LogFormat: format,
		ids:          ids,
		lastReceived: make([]wrappingCounter, len(interfaces)),
		lastSent:     make([]wrappingCounter, len(interfaces)),
	}, nil
}

func (n *NetworkThroughput) IDs() []string { return n.ids }

// wrappingCounter tracks a monotonic counter's previous reading so
// consecutive ticks can be turned into a delta, handling the counter
// wrapping back to 0.
type wrappingCounter struct {
	last    measurement.DataSize
	present bool
}

func (w *wrappingCounter) update(data measurement.DataSize) (measurement.DataSize, bool) {
	var delta measurement.DataSize
	ok := false
	if w.present {
		if data.Data() < w.last.Data() {
			delta = measurement.MaxDataSize.Sub(w.last).Add(measurement.NewDataSize(1)).Add(data)
		} else {
			delta = data.Sub(w.last)
		}
		ok = true
	}
	w.last = data
	w.present = true
	return delta, ok
}

func bytesFromFile(path string) (measurement.DataSize, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return measurement.DataSize{}, fmt.Errorf("could not open %s for reading: %w", path, err)
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return measurement.DataSize{}, fmt.Errorf("could not parse interface statistics file: %w", err)
	}
	return measurement.NewDataSize(v), nil
}

func (n *NetworkThroughput) Get(_ context.Context) []Sample[measurement.DataSize] {
	var res []Sample[measurement.DataSize]
	for i, iface := range n.Interfaces {
		if n.Received {
			res = append(res, sampleCounter(&n.lastReceived[i], fmt.Sprintf("/sys/class/net/%s/statistics/rx_bytes", iface)))
		}
		if n.Sent {
			res = append(res, sampleCounter(&n.lastSent[i], fmt.Sprintf("/sys/class/net/%s/statistics/tx_bytes", iface)))
		}
	}
	return res
}

func sampleCounter(counter *wrappingCounter, path string) Sample[measurement.DataSize] {
	v, err := bytesFromFile(path)
	if err != nil {
		return Failed[measurement.DataSize](err)
	}
	delta, ok := counter.update(v)
	if !ok {
		return Skip[measurement.DataSize]()
	}
	return Ok(delta)
}
