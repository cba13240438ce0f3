package shellycloud

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cepro/shellyflux/telemetry"
)

func TestChunkDevices(t *testing.T) {
	devices := make([]telemetry.Device, 23)
	for i := range devices {
		devices[i] = telemetry.Device{ID: fmt.Sprintf("dev-%02d", i), Source: telemetry.SourceCloud}
	}

	chunks := ChunkDevices(devices, BatchLimit)

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 10)
	assert.Len(t, chunks[1], 10)
	assert.Len(t, chunks[2], 3)

	// order must be preserved across the chunk boundaries
	assert.Equal(t, "dev-00", chunks[0][0].ID)
	assert.Equal(t, "dev-09", chunks[0][9].ID)
	assert.Equal(t, "dev-10", chunks[1][0].ID)
	assert.Equal(t, "dev-22", chunks[2][2].ID)

	assert.Empty(t, ChunkDevices(nil, BatchLimit))
}
