package influx

import (
	"context"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/cepro/shellyflux/telemetry"
)

// Sink delivers readings to an InfluxDB bucket, one line protocol record per
// write. There is no buffering and no retry: a failed write means the sample
// is lost.
type Sink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
}

// New connects a sink to the given InfluxDB instance. requestTimeoutSecs
// bounds every write request.
func New(url, token, org, bucket string, requestTimeoutSecs uint) *Sink {
	options := influxdb2.DefaultOptions().SetHTTPRequestTimeout(requestTimeoutSecs)
	client := influxdb2.NewClientWithOptions(url, token, options)

	return &Sink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
	}
}

// Write serializes the reading and performs a single blocking write.
func (s *Sink) Write(ctx context.Context, reading telemetry.Reading) error {
	return s.writeAPI.WriteRecord(ctx, Line(reading))
}

// Close releases the underlying HTTP resources.
func (s *Sink) Close() {
	s.client.Close()
}
