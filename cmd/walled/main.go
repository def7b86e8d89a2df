// walled - WALL-E choreography daemon
//
// Serves the motion engine over HTTP and websockets. Runs against a
// simulated driver unless wired to real hardware.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-walle/internal/config"
	"github.com/teslashibe/go-walle/internal/log"
	"github.com/teslashibe/go-walle/pkg/choreo"
	"github.com/teslashibe/go-walle/pkg/engine"
	"github.com/teslashibe/go-walle/pkg/motion"
	"github.com/teslashibe/go-walle/pkg/servo"
	"github.com/teslashibe/go-walle/pkg/web"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML rig config (optional)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	log.Init(cfg.LogLevel)

	registry, err := cfg.Registry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	driver := servo.NewSimDriver()
	positions := servo.NewPositions(registry)
	ctrl := motion.NewController(registry, positions, driver)
	lib := choreo.NewLibrary(registry)
	eng := engine.New(ctrl, lib)

	// Drive every channel to its default pose before accepting commands.
	for _, spec := range registry.List() {
		if err := ctrl.SetImmediate(spec.ID, spec.Default); err != nil {
			log.Warn("initial pose failed", "channel", spec.ID, "error", err)
		}
	}
	log.Info("rig initialized", "channels", len(registry.List()))

	server := web.NewServer(eng)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down")
		eng.Stop()
		server.Shutdown()
	}()

	if err := server.Start(cfg.Addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
