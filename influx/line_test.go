package influx

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cepro/shellyflux/telemetry"
)

func TestLine(t *testing.T) {

	tests := []struct {
		name     string
		reading  telemetry.Reading
		expected string
	}{
		{
			name: "Per-channel powers, total and temperature",
			reading: telemetry.Reading{
				DeviceName:    "Kitchen",
				ChannelPowers: []float64{650.2, 600.3},
				TotalPower:    pointerToFloat64(1250.5),
				Temperature:   pointerToFloat64(45.2),
			},
			expected: "shelly,device=Kitchen power_l1=650.2,power_l2=600.3,power=1250.5,temperature=45.2",
		},
		{
			name: "Total only",
			reading: telemetry.Reading{
				DeviceName: "Plug",
				TotalPower: pointerToFloat64(20),
			},
			expected: "shelly,device=Plug power=20",
		},
		{
			name: "Zero watt total is still written",
			reading: telemetry.Reading{
				DeviceName: "Idle",
				TotalPower: pointerToFloat64(0),
			},
			expected: "shelly,device=Idle power=0",
		},
		{
			name: "Temperature only",
			reading: telemetry.Reading{
				DeviceName:  "Sensor",
				Temperature: pointerToFloat64(21.5),
			},
			expected: "shelly,device=Sensor temperature=21.5",
		},
		{
			name: "Three phases",
			reading: telemetry.Reading{
				DeviceName:    "Mains",
				ChannelPowers: []float64{100, 200.25, 300},
				TotalPower:    pointerToFloat64(600.25),
			},
			expected: "shelly,device=Mains power_l1=100,power_l2=200.25,power_l3=300,power=600.25",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Line(test.reading))
		})
	}
}

func pointerToFloat64(v float64) *float64 {
	return &v
}
