package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/behrlich/go-hdmi"
	"github.com/behrlich/go-hdmi/internal/logging"
)

func main() {
	var (
		modeStr  = flag.String("mode", "", "Mode to set (e.g., 1280x720); empty uses the sink's preferred mode")
		edidPath = flag.String("edid", "", "Binary EDID file to serve on the capability channel")
		frames   = flag.Int("frames", 0, "Number of frames to push before exiting (0 runs until interrupted)")
		fps      = flag.Int("fps", 60, "Frame update rate")
		verbose  = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	// Set up logging
	logConfig := logging.DefaultConfig()
	if *verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)
	logging.SetDefault(logger)

	// Simulated hardware collaborators. The mock set behaves like a
	// fully wired board: clock, DMA, bridge and (optionally) a sink
	// serving the given EDID.
	clock := &hdmi.MockClock{}
	dma := &hdmi.MockDMAChannel{}
	bridge := &hdmi.MockBridge{}

	params := hdmi.Params{
		ClockSource:  func() (hdmi.Clock, error) { return clock, nil },
		DMASource:    func() (hdmi.DMAChannel, error) { return dma, nil },
		BridgeSource: func() (hdmi.TimingBridge, error) { return bridge, nil },
	}

	if *edidPath != "" {
		block, err := os.ReadFile(*edidPath)
		if err != nil {
			log.Fatalf("Cannot read EDID file '%s': %v", *edidPath, err)
		}
		ddc := &hdmi.MockDiscoveryChannel{Block: block}
		params.DiscoverySource = func() (hdmi.DiscoveryChannel, error) { return ddc, nil }
	}

	device, err := hdmi.Probe(params, &hdmi.Options{Logger: logger})
	if err != nil {
		logger.Error("failed to probe device", "error", err)
		os.Exit(1)
	}
	defer func() {
		logger.Info("shutting down pipeline")
		device.Shutdown()
	}()

	count, err := device.GetModes()
	if err != nil {
		logger.Error("mode discovery failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Sink: %s (%s)\n", sinkName(device.Sink().Name), device.Detect())
	fmt.Printf("Modes (%d):\n", count)
	for _, m := range device.Modes() {
		marker := " "
		if m.Preferred() {
			marker = "*"
		}
		fmt.Printf("  %s %s %dHz\n", marker, m.String(), m.VRefresh())
	}

	target := device.PreferredMode()
	if *modeStr != "" {
		target = findMode(device, *modeStr)
		if target == nil {
			log.Fatalf("No such mode '%s'", *modeStr)
		}
	}
	if target == nil {
		log.Fatal("Sink reports no preferred mode; pass -mode")
	}

	if err := device.SetMode(target); err != nil {
		logger.Error("mode set failed", "error", err)
		os.Exit(1)
	}
	if err := device.Enable(); err != nil {
		logger.Error("pipeline enable failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("\nPipeline enabled: %s, clock %d Hz\n", target.String(), clock.Rate())
	if *frames == 0 {
		fmt.Printf("Pushing frames at %d fps. Press Ctrl+C to stop...\n", *fps)
	}

	fb := &hdmi.MockFramebuffer{
		Addr: 0x3800_0000,
		Row:  uint32(target.HDisplay) * hdmi.BytesPerPixel,
		CPP:  hdmi.BytesPerPixel,
	}
	state := hdmi.PlaneState{
		Active: true,
		FB:     fb,
		Region: hdmi.Region{Width: uint32(target.HDisplay), Height: uint32(target.VDisplay)},
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second / time.Duration(*fps))
	defer ticker.Stop()

	pushed := 0
loop:
	for {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal")
			break loop
		case <-ticker.C:
			device.QueueVblank(hdmi.EventFunc(func() {
				logger.Debug("vblank signaled", "frame", pushed)
			}))
			if err := device.Update(state); err != nil {
				logger.Error("frame update failed", "error", err)
				break loop
			}
			device.BeginFrame()
			pushed++
			if *frames > 0 && pushed >= *frames {
				break loop
			}
		}
	}

	device.Disable()

	snap := device.Metrics().Snapshot()
	out, _ := json.MarshalIndent(snap, "", "  ")
	fmt.Printf("\nMetrics after %d frames:\n%s\n", pushed, out)
}

// findMode resolves a "<w>x<h>" string against the discovered list.
func findMode(device *hdmi.Device, s string) *hdmi.DisplayMode {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return nil
	}
	w, errW := strconv.Atoi(parts[0])
	h, errH := strconv.Atoi(parts[1])
	if errW != nil || errH != nil {
		return nil
	}

	for _, m := range device.Modes() {
		if int(m.HDisplay) == w && int(m.VDisplay) == h {
			m := m
			return &m
		}
	}
	return nil
}

func sinkName(name string) string {
	if name == "" {
		return "unnamed sink"
	}
	return name
}
