package shelly

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/cepro/shellyflux/telemetry"
	"github.com/google/uuid"
)

// Normalize maps a raw device status payload onto a canonical power reading.
//
// The three known payload shapes are probed in priority order: per-phase
// `emeters` channels, plug-style `meters` channels, then `switches` whose
// `apower` values contribute to the total only. The first matching shape
// wins. The total power is set whenever at least one channel entry was found,
// even when the measured sum is exactly zero. Temperature is taken from
// `temperature.tC`, falling back to `tmp.tC`.
//
// Returns false when the payload contains neither channel data nor a
// temperature - the caller must not emit anything in that case.
func Normalize(deviceName string, raw json.RawMessage) (telemetry.Reading, bool) {
	var status deviceStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		// Field types vary across device generations: Gen1 plug meters
		// report a numeric top-level `temperature` next to the `tmp`
		// object. A per-field type mismatch still populates the other
		// fields, so only give up when the payload is not decodable at
		// all.
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return telemetry.Reading{}, false
		}
	}

	reading := telemetry.Reading{
		ID:         uuid.New(),
		Time:       time.Now(),
		DeviceName: deviceName,
	}

	switch {
	case len(status.EMeters) > 0:
		reading.ChannelPowers, reading.TotalPower = sumChannels(status.EMeters)
	case len(status.Meters) > 0:
		reading.ChannelPowers, reading.TotalPower = sumChannels(status.Meters)
	case len(status.Switches) > 0:
		total := 0.0
		for _, sw := range status.Switches {
			total += sw.APower
		}
		reading.TotalPower = &total
	}

	if status.Temperature != nil && status.Temperature.TC != nil {
		reading.Temperature = status.Temperature.TC
	} else if status.Tmp != nil && status.Tmp.TC != nil {
		reading.Temperature = status.Tmp.TC
	}

	if reading.TotalPower == nil && reading.Temperature == nil {
		return telemetry.Reading{}, false
	}

	return reading, true
}

// sumChannels extracts the per-channel powers in array order along with their sum.
func sumChannels(channels []meterChannel) ([]float64, *float64) {
	powers := make([]float64, 0, len(channels))
	total := 0.0
	for _, channel := range channels {
		powers = append(powers, channel.Power)
		total += channel.Power
	}
	return powers, &total
}
