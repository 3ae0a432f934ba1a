// ABOUTME: Entry point for the Chronoterm NTP clock
// ABOUTME: Parses CLI flags, sets up logging, and starts the clock application
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chronoterm/chronoterm-go/internal/app"
	"github.com/chronoterm/chronoterm-go/internal/discovery"
	"github.com/chronoterm/chronoterm-go/internal/ntp"
	"github.com/chronoterm/chronoterm-go/internal/version"
)

var (
	server       = flag.String("server", "pool.ntp.org", "NTP server hostname or IPv4 address")
	port         = flag.Int("port", ntp.DefaultPort, "NTP server UDP port")
	timeoutMs    = flag.Int("timeout-ms", 5000, "Per-attempt response timeout in milliseconds")
	retries      = flag.Int("retries", 3, "Total sync attempts per Sync call")
	syncInterval = flag.Int("sync-interval", 7200, "Seconds between automatic re-syncs")
	discover     = flag.Bool("discover", false, "Browse for a local NTP server via mDNS before falling back to -server")
	logFile      = flag.String("log-file", "chronoterm.log", "Log file path")
	noTUI        = flag.Bool("no-tui", false, "Disable the clock display, log status lines instead")
	showVersion  = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s (%s)\n", version.Product, version.Version, version.Manufacturer)
		return
	}

	useTUI := !*noTUI

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: the alternate screen owns stdout, log only to file
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("Starting %s %s", version.Product, version.Version)

	serverName := *server
	serverPort := *port
	if *discover {
		serverName, serverPort = discoverServer(serverName, serverPort)
	}

	clock, err := app.New(app.Config{
		Server:       serverName,
		Port:         serverPort,
		Timeout:      time.Duration(*timeoutMs) * time.Millisecond,
		RetryCount:   *retries,
		SyncInterval: time.Duration(*syncInterval) * time.Second,
		Headless:     !useTUI,
	})
	if err != nil {
		log.Fatalf("Failed to create clock: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Printf("Shutdown signal received")
		clock.Stop()
	}()

	if err := clock.Start(); err != nil {
		log.Fatalf("Clock error: %v", err)
	}

	log.Printf("Clock stopped")
}

// discoverServer browses for an advertised NTP server and falls back to the
// configured one after 10 seconds.
func discoverServer(fallback string, fallbackPort int) (string, int) {
	log.Printf("Browsing for local NTP servers...")
	disc := discovery.NewManager(discovery.Config{})
	disc.Browse()
	defer disc.Stop()

	select {
	case found := <-disc.Servers():
		log.Printf("Using discovered server %s at %s:%d", found.Name, found.Host, found.Port)
		return found.Host, found.Port
	case <-time.After(10 * time.Second):
		log.Printf("No server discovered, falling back to %s:%d", fallback, fallbackPort)
		return fallback, fallbackPort
	}
}
