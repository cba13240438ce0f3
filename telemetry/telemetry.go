package telemetry

import (
	"time"

	"github.com/google/uuid"
)

// Source identifies how a device is reached.
type Source string

const (
	SourceLocal Source = "local"
	SourceCloud Source = "cloud"
)

// Device identifies one monitored power meter.
type Device struct {
	ID     string // local devices use their status URL; cloud devices the vendor-assigned ID
	Name   string // human label, used as the metric's device tag
	Source Source
	URL    string // status endpoint, local devices only
}

// Reading holds one normalized power/temperature record pulled from a device.
type Reading struct {
	ID            uuid.UUID
	Time          time.Time
	DeviceName    string
	ChannelPowers []float64 // watts per channel, in device order; multi-channel families only
	TotalPower    *float64  // watts; set when at least one channel was found, even at 0W
	Temperature   *float64  // celsius
}
