// Command plctl discovers one Pupil Labs Realtime API device, prints its
// status, and streams matched scene-video/gaze samples to stdout for a
// configured duration.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pupil-labs/realtime-go/discovery"
	"github.com/pupil-labs/realtime-go/internal/config"
	"github.com/pupil-labs/realtime-go/simple"
)

const defaultConfigPath = "plctl.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("plctl: loading config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("plctl: received shutdown signal", "signal", sig)
		cancel()
	}()

	if err := run(ctx, cfg); err != nil {
		slog.Error("plctl: stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	host, port := cfg.Device.Host, cfg.Device.Port
	if host == "" {
		slog.Info("plctl: no device.host configured, discovering via mDNS", "timeout", cfg.DiscoveryTimeout())
		rec, err := discovery.One(ctx, cfg.DiscoveryTimeout())
		if err != nil {
			return fmt.Errorf("plctl: discovering device: %w", err)
		}
		host, port = rec.IPv4, rec.Port
		slog.Info("plctl: discovered device", "name", rec.Name, "host", host, "port", port)
	}

	dev := simple.New(host, port)
	defer dev.Close()

	statusCtx, statusCancel := context.WithTimeout(ctx, 5*time.Second)
	defer statusCancel()
	for dev.PhoneID() == "" {
		select {
		case <-statusCtx.Done():
			return fmt.Errorf("plctl: timed out waiting for device status")
		case <-time.After(50 * time.Millisecond):
		}
	}
	slog.Info("plctl: connected",
		"phone_name", dev.PhoneName(),
		"phone_id", dev.PhoneID(),
		"battery_percent", dev.BatteryLevelPercent(),
		"glasses_serial", dev.SerialNumberGlasses(),
	)

	var recordingID string
	if cfg.Session.Record {
		id, err := dev.RecordingStart(ctx)
		if err != nil {
			return fmt.Errorf("plctl: starting recording: %w", err)
		}
		recordingID = id
		slog.Info("plctl: recording started", "recording_id", recordingID)
		defer func() {
			if err := dev.RecordingStopAndSave(context.Background()); err != nil {
				slog.Error("plctl: stopping recording", "error", err)
			}
		}()
	}

	runCtx, runCancel := context.WithTimeout(ctx, cfg.SessionDuration())
	defer runCancel()

	var frames int
	for {
		sample, err := dev.ReceiveMatchedSceneVideoFrameAndGaze(runCtx)
		if err != nil {
			if runCtx.Err() != nil {
				break
			}
			return fmt.Errorf("plctl: receiving matched sample: %w", err)
		}
		frames++
		gazeStatus := "no gaze"
		if sample.Gaze != nil {
			gazeStatus = "matched gaze"
		}
		slog.Debug("plctl: matched frame", "nals", len(sample.Frame.NALs), "gaze", gazeStatus)
	}
	slog.Info("plctl: session complete", "frames", frames)
	return nil
}
