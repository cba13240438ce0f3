package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cepro/shellyflux/collector"
	"github.com/cepro/shellyflux/config"
	"github.com/cepro/shellyflux/directory"
	"github.com/cepro/shellyflux/influx"
	"github.com/cepro/shellyflux/shelly"
	"github.com/cepro/shellyflux/shellycloud"
	"github.com/cepro/shellyflux/telemetry"
)

const (
	deviceRequestTimeout = 5 * time.Second  // local device status and influx write calls
	cloudRequestTimeout  = 15 * time.Second // cloud discovery and batch status calls
)

func main() {

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "shellyflux.json", "path to the configuration file")
	flag.Parse()

	slog.Info("Starting collector...")

	cfg, err := config.Read(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	localDevices := make([]telemetry.Device, 0, len(cfg.Devices))
	for _, device := range cfg.Devices {
		localDevices = append(localDevices, telemetry.Device{
			ID:     device.Url,
			Name:   device.Name,
			Source: telemetry.SourceLocal,
			URL:    device.Url,
		})
	}
	slog.Info(
		"Loaded configuration",
		"local_devices", len(localDevices),
		"cloud_host", cfg.ShellyCloud.Url,
		"influx_host", cfg.Influx.Url,
	)

	localClient := shelly.NewClient(http.Client{Timeout: deviceRequestTimeout})
	cloudClient := shellycloud.New(http.Client{Timeout: cloudRequestTimeout}, cfg.ShellyCloud.Url, cfg.ShellyCloud.AuthKey)

	sink := influx.New(cfg.Influx.Url, cfg.Influx.Token, cfg.Influx.Org, cfg.Influx.Bucket, uint(deviceRequestTimeout/time.Second))
	defer sink.Close()

	coll := collector.New(
		collector.Config{
			PollInterval:    cfg.PollInterval(),
			RefreshInterval: cfg.RefreshInterval(),
			LivenessFile:    cfg.LivenessFile,
		},
		directory.New(localDevices, cloudClient),
		localClient,
		cloudClient,
		sink,
	)

	// a ctrl-c interrupt or SIGTERM cancels the context; the collector
	// finishes its in-flight step and exits cleanly
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	coll.Run(ctx)

	slog.Info("Exiting")
}
