package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cepro/shellyflux/directory"
	"github.com/cepro/shellyflux/shelly"
	"github.com/cepro/shellyflux/shellycloud"
	"github.com/cepro/shellyflux/telemetry"
)

// LocalPoller fetches a raw status payload from a local device endpoint.
type LocalPoller interface {
	GetStatus(ctx context.Context, url string) (json.RawMessage, error)
}

// CloudPoller fetches the raw status payloads for one batch of cloud device
// IDs, keyed by device ID.
type CloudPoller interface {
	GetStatuses(ctx context.Context, ids []string) (map[string]json.RawMessage, error)
}

// Sink delivers a normalized reading to the metrics backend.
type Sink interface {
	Write(ctx context.Context, reading telemetry.Reading) error
}

// Stats holds the process-lifetime emission counters. They reset only on
// process restart.
type Stats struct {
	Attempted int
	Succeeded int
	Failed    int
}

type Config struct {
	PollInterval    time.Duration
	RefreshInterval time.Duration
	LivenessFile    string // cycle-complete marker path; empty disables the marker
}

// Collector drives one polling cycle per interval: refresh the device
// directory when due, poll every local device sequentially, poll the cloud
// devices in fixed-size batches, and sink each normalized reading.
//
// Everything runs on the single goroutine that calls Run. Shutdown is
// cooperative: the context is checked between devices, between batches and
// between cycles, never mid-call, so an in-flight request always completes
// (or times out) before the collector stops.
type Collector struct {
	config    Config
	directory *directory.Directory
	local     LocalPoller
	cloud     CloudPoller
	sink      Sink

	stats       Stats
	lastRefresh time.Time
	logger      *slog.Logger
}

func New(config Config, dir *directory.Directory, local LocalPoller, cloud CloudPoller, sink Sink) *Collector {
	return &Collector{
		config:    config,
		directory: dir,
		local:     local,
		cloud:     cloud,
		sink:      sink,
		logger:    slog.Default().With("component", "collector"),
	}
}

// Run loops until the context is cancelled, running one collection cycle per
// poll interval. The first cycle starts immediately. On cancellation the
// in-flight cycle finishes its current step, the sleep is skipped and the
// final statistics are logged.
func (c *Collector) Run(ctx context.Context) {
	c.logger.Info(
		"Starting collector",
		"poll_interval", c.config.PollInterval,
		"refresh_interval", c.config.RefreshInterval,
		"local_devices", len(c.directory.Local()),
	)

	for ctx.Err() == nil {
		c.runCycle(ctx)

		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
		case <-time.After(c.config.PollInterval):
		}
	}

	c.logger.Info(
		"Collector stopped",
		"attempted", c.stats.Attempted,
		"succeeded", c.stats.Succeeded,
		"failed", c.stats.Failed,
	)
}

// runCycle performs a single pass over every known device.
func (c *Collector) runCycle(ctx context.Context) {
	now := time.Now()
	if now.After(c.lastRefresh.Add(c.config.RefreshInterval)) {
		c.directory.Refresh(ctx)
		c.lastRefresh = now
	}

	c.pollLocalDevices(ctx)
	c.pollCloudDevices(ctx)

	if ctx.Err() != nil {
		return
	}
	if err := c.writeLivenessMarker(now); err != nil {
		c.logger.Error("Failed to write liveness marker", "path", c.config.LivenessFile, "error", err)
	}
}

// pollLocalDevices polls each local device in turn. A device failure is
// logged and that device skipped; a cancelled context aborts the remaining
// devices for this cycle.
func (c *Collector) pollLocalDevices(ctx context.Context) {
	for _, device := range c.directory.Local() {
		if ctx.Err() != nil {
			return
		}

		raw, err := c.local.GetStatus(ctx, device.URL)
		if err != nil {
			c.logger.Error("Failed to poll local device", "device", device.Name, "error", err)
			continue
		}

		reading, ok := shelly.Normalize(device.Name, raw)
		if !ok {
			c.logger.Debug("No usable data in status", "device", device.Name)
			continue
		}
		c.emit(ctx, reading)
	}
}

// pollCloudDevices polls the cloud devices in fixed-size batches. A failed
// batch is skipped in full - there is no per-device fallback. A cancelled
// context aborts the remaining batches for this cycle.
func (c *Collector) pollCloudDevices(ctx context.Context) {
	for _, batch := range shellycloud.ChunkDevices(c.directory.Cloud(), shellycloud.BatchLimit) {
		if ctx.Err() != nil {
			return
		}

		ids := make([]string, 0, len(batch))
		for _, device := range batch {
			ids = append(ids, device.ID)
		}

		statuses, err := c.cloud.GetStatuses(ctx, ids)
		if err != nil {
			c.logger.Error("Failed to poll cloud batch", "devices", len(batch), "error", err)
			continue
		}

		for _, device := range batch {
			raw, found := statuses[device.ID]
			if !found {
				// the cloud omits devices it has no status for
				continue
			}
			reading, ok := shelly.Normalize(device.Name, raw)
			if !ok {
				c.logger.Debug("No usable data in status", "device", device.Name)
				continue
			}
			c.emit(ctx, reading)
		}
	}
}

// emit writes one reading to the sink and updates the run statistics. Every
// 100 emission attempts the aggregate success rate is logged.
func (c *Collector) emit(ctx context.Context, reading telemetry.Reading) {
	c.stats.Attempted++
	err := c.sink.Write(ctx, reading)
	if err != nil {
		c.stats.Failed++
		c.logger.Error("Failed to write reading", "device", reading.DeviceName, "error", err)
	} else {
		c.stats.Succeeded++
	}

	if c.stats.Attempted%100 == 0 {
		c.logger.Info(
			"Emission statistics",
			"attempted", c.stats.Attempted,
			"succeeded", c.stats.Succeeded,
			"failed", c.stats.Failed,
			"success_rate_pct", float64(c.stats.Succeeded)/float64(c.stats.Attempted)*100,
		)
	}
}

// writeLivenessMarker writes the cycle-complete marker consumed by external
// health checks.
func (c *Collector) writeLivenessMarker(t time.Time) error {
	if c.config.LivenessFile == "" {
		return nil
	}
	content := fmt.Sprintf("alive %s\n", t.Format(time.RFC3339))
	return os.WriteFile(c.config.LivenessFile, []byte(content), 0644)
}

// Stats returns a copy of the process-lifetime emission counters.
func (c *Collector) Stats() Stats {
	return c.stats
}
