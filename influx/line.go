package influx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cepro/shellyflux/telemetry"
)

// Line serializes a reading into InfluxDB line protocol. Field order is
// fixed: the per-channel powers as power_l1..power_lN, then the total power,
// then the temperature. The device name is used verbatim as the `device`
// tag - names containing characters illegal in line protocol are a
// configuration error and are not escaped here.
func Line(reading telemetry.Reading) string {
	fields := make([]string, 0, len(reading.ChannelPowers)+2)
	for i, power := range reading.ChannelPowers {
		fields = append(fields, fmt.Sprintf("power_l%d=%s", i+1, formatFloat(power)))
	}
	if reading.TotalPower != nil {
		fields = append(fields, "power="+formatFloat(*reading.TotalPower))
	}
	if reading.Temperature != nil {
		fields = append(fields, "temperature="+formatFloat(*reading.Temperature))
	}

	return fmt.Sprintf("shelly,device=%s %s", reading.DeviceName, strings.Join(fields, ","))
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
