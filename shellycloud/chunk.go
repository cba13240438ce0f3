package shellycloud

import (
	"github.com/cepro/shellyflux/telemetry"
)

// ChunkDevices partitions devices into consecutive chunks of at most size
// entries, preserving the original order. The collector feeds each chunk to
// GetStatuses as one batch request.
func ChunkDevices(devices []telemetry.Device, size int) [][]telemetry.Device {
	var chunks [][]telemetry.Device
	for start := 0; start < len(devices); start += size {
		end := start + size
		if end > len(devices) {
			end = len(devices)
		}
		chunks = append(chunks, devices[start:end])
	}
	return chunks
}
