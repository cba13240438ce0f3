package directory

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cepro/shellyflux/shellycloud"
	"github.com/cepro/shellyflux/telemetry"
)

// meterTypeTags are the device family tags we know how to normalize.
// Discovered devices whose reported type matches none of these are ignored.
// The match is a case-sensitive substring check.
var meterTypeTags = []string{"EM", "PM", "3EM"}

// CloudLister queries a cloud account for the devices registered on it.
type CloudLister interface {
	ListDevices(ctx context.Context) ([]shellycloud.DiscoveredDevice, error)
}

// Directory maintains the set of devices to poll. Local devices come from
// static configuration and never change; cloud devices are re-discovered on
// every Refresh and replace the previous cloud set wholesale.
//
// The directory is owned by the single collector goroutine and is not safe
// for concurrent use.
type Directory struct {
	local  []telemetry.Device
	cloud  []telemetry.Device
	lister CloudLister
	logger *slog.Logger
}

func New(local []telemetry.Device, lister CloudLister) *Directory {
	return &Directory{
		local:  local,
		lister: lister,
		logger: slog.Default().With("component", "directory"),
	}
}

// Refresh re-discovers the cloud device set. A discovery failure empties the
// cloud set for this cycle - it is logged, not propagated, and the previous
// cloud list is not kept around.
func (d *Directory) Refresh(ctx context.Context) {
	discovered, err := d.lister.ListDevices(ctx)
	if err != nil {
		d.logger.Error("Cloud device discovery failed", "error", err)
		d.cloud = nil
		return
	}

	cloud := make([]telemetry.Device, 0, len(discovered))
	for _, device := range discovered {
		if !isMeterType(device.Type) {
			continue
		}
		cloud = append(cloud, telemetry.Device{
			ID:     device.ID,
			Name:   device.Name,
			Source: telemetry.SourceCloud,
		})
	}
	d.cloud = cloud

	d.logger.Info("Refreshed cloud devices", "discovered", len(discovered), "meters", len(cloud))
}

// Local returns the static local device set.
func (d *Directory) Local() []telemetry.Device {
	return d.local
}

// Cloud returns the cloud device set from the most recent Refresh.
func (d *Directory) Cloud() []telemetry.Device {
	return d.cloud
}

func isMeterType(deviceType string) bool {
	for _, tag := range meterTypeTags {
		if strings.Contains(deviceType, tag) {
			return true
		}
	}
	return false
}
