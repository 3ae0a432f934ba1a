// ABOUTME: One-shot sync diagnostic tool
// ABOUTME: Performs a single sync against a server and prints the result
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/chronoterm/chronoterm-go/internal/ntp"
)

var (
	server    = flag.String("server", "pool.ntp.org", "NTP server hostname or IPv4 address")
	port      = flag.Int("port", ntp.DefaultPort, "NTP server UDP port")
	timeoutMs = flag.Int("timeout-ms", 5000, "Per-attempt response timeout in milliseconds")
	retries   = flag.Int("retries", 3, "Total sync attempts")
)

func main() {
	flag.Parse()

	client, err := ntp.NewClient(ntp.Config{
		Server:     *server,
		Port:       *port,
		Timeout:    time.Duration(*timeoutMs) * time.Millisecond,
		RetryCount: *retries,
	})
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	defer client.Close()

	fmt.Printf("Syncing with %s:%d...\n", *server, *port)
	start := time.Now()

	if err := client.Sync(); err != nil {
		fmt.Printf("Sync failed after %v: %v\n", time.Since(start).Round(time.Millisecond), err)
		os.Exit(1)
	}

	offset, _ := client.Offset()
	name, _ := client.ServerName()
	corrected := time.Unix(client.CurrentTime(), 0).UTC()

	fmt.Printf("Server:  %s\n", name)
	fmt.Printf("Offset:  %+ds\n", offset)
	fmt.Printf("Time:    %s\n", corrected.Format("2006-01-02 15:04:05 UTC"))
	fmt.Printf("Elapsed: %v\n", time.Since(start).Round(time.Millisecond))
}
