// ABOUTME: mDNS browsing for NTP servers on the local network
// ABOUTME: Feeds discovered server addresses to the app over a channel
package discovery

import (
	"context"
	"log"
	"time"

	"github.com/hashicorp/mdns"
)

// NTPService is the mDNS service type local NTP servers advertise.
const NTPService = "_ntp._udp"

// Config holds discovery configuration.
type Config struct {
	Service string // defaults to NTPService
	Domain  string // defaults to "local"
}

// Manager handles mDNS browsing.
type Manager struct {
	config  Config
	ctx     context.Context
	cancel  context.CancelFunc
	servers chan *ServerInfo
}

// ServerInfo describes a discovered server.
type ServerInfo struct {
	Name string
	Host string
	Port int
}

// NewManager creates a discovery manager.
func NewManager(config Config) *Manager {
	if config.Service == "" {
		config.Service = NTPService
	}
	if config.Domain == "" {
		config.Domain = "local"
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		config:  config,
		ctx:     ctx,
		cancel:  cancel,
		servers: make(chan *ServerInfo, 10),
	}
}

// Browse starts searching for servers in the background.
func (m *Manager) Browse() error {
	go m.browseLoop()
	return nil
}

// browseLoop repeats short query rounds until the manager is stopped.
func (m *Manager) browseLoop() {
	for {
		select {
		case <-m.ctx.Done():
			return
		default:
		}

		entries := make(chan *mdns.ServiceEntry, 10)

		go func() {
			for entry := range entries {
				if entry.AddrV4 == nil {
					continue
				}
				server := &ServerInfo{
					Name: entry.Name,
					Host: entry.AddrV4.String(),
					Port: entry.Port,
				}

				log.Printf("Discovered NTP server: %s at %s:%d", server.Name, server.Host, server.Port)

				select {
				case m.servers <- server:
				case <-m.ctx.Done():
					return
				}
			}
		}()

		params := &mdns.QueryParam{
			Service: m.config.Service,
			Domain:  m.config.Domain,
			Timeout: 3 * time.Second,
			Entries: entries,
		}

		mdns.Query(params)
		close(entries)
	}
}

// Servers returns the channel of discovered servers.
func (m *Manager) Servers() <-chan *ServerInfo {
	return m.servers
}

// Stop stops the discovery manager.
func (m *Manager) Stop() {
	m.cancel()
}
