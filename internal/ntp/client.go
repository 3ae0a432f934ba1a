// ABOUTME: SNTP client engine with retry and lock-protected offset state
// ABOUTME: Serves corrected-time queries while a sync runs in the background
package ntp

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net"
	"strconv"
	"sync"
	"time"
)

const (
	// DefaultPort is the standard NTP UDP port.
	DefaultPort = 123

	// retryBackoff is the pause between failed sync attempts.
	retryBackoff = 500 * time.Millisecond

	// serverNameMax caps the name returned by ServerName.
	serverNameMax = 128
)

// Config describes one client. Timeout and RetryCount bound a single Sync
// call. SyncInterval is advisory: the engine never re-syncs on its own, the
// caller polls SecondsSinceSync and decides.
type Config struct {
	Server       string
	Port         int
	Timeout      time.Duration
	RetryCount   int
	SyncInterval time.Duration
}

// Client performs one-shot request/response exchanges with an NTP server and
// keeps the measured clock offset behind a lock, so any number of readers can
// query corrected time while a sync is in flight. A failed sync never touches
// previously committed state: stale-but-valid beats no data.
type Client struct {
	mu          sync.RWMutex
	initialized bool
	everSynced  bool
	config      Config
	offset      int64 // seconds, server minus local at the moment of sync
	lastSync    time.Time
	syncServer  string

	// syncMu serializes sync attempts so at most one exchange is in flight.
	syncMu sync.Mutex
}

// NewClient validates config and returns a ready client.
func NewClient(config Config) (*Client, error) {
	if config.Server == "" {
		return nil, fmt.Errorf("%w: empty server name", ErrInvalidParam)
	}
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.Port < 1 || config.Port > 65535 {
		return nil, fmt.Errorf("%w: port %d out of range", ErrInvalidParam, config.Port)
	}
	if config.Timeout <= 0 {
		return nil, fmt.Errorf("%w: timeout must be positive", ErrInvalidParam)
	}
	if config.RetryCount < 1 {
		return nil, fmt.Errorf("%w: retry count must be at least 1", ErrInvalidParam)
	}
	return &Client{initialized: true, config: config}, nil
}

// Close marks the client unusable. Queries return their never-synced
// sentinels afterwards.
func (c *Client) Close() error {
	c.mu.Lock()
	c.initialized = false
	c.mu.Unlock()
	return nil
}

// Sync resolves the configured server, performs one UDP exchange per attempt
// and commits the measured offset. RetryCount is the total number of
// attempts; failing attempts are separated by a fixed 500ms pause taken with
// no lock held, so readers are never blocked by a slow retry loop. The last
// attempt's error is returned as-is.
func (c *Client) Sync() error {
	c.mu.RLock()
	initialized := c.initialized
	config := c.config
	c.mu.RUnlock()
	if !initialized {
		return ErrNotInitialized
	}

	c.syncMu.Lock()
	defer c.syncMu.Unlock()

	var lastErr error
	for attempt := 1; attempt <= config.RetryCount; attempt++ {
		if attempt > 1 {
			time.Sleep(retryBackoff)
			// Pick up a server change made while we were sleeping.
			c.mu.RLock()
			config = c.config
			c.mu.RUnlock()
		}

		resp, err := fetch(config.Server, config.Port, config.Timeout)
		if err != nil {
			lastErr = err
			log.Printf("ntp: attempt %d/%d against %s failed: %v",
				attempt, config.RetryCount, config.Server, err)
			continue
		}

		now := time.Now()
		offset := resp.serverUnix() - now.Unix()

		c.mu.Lock()
		c.offset = offset
		c.lastSync = now
		c.everSynced = true
		c.syncServer = config.Server
		c.mu.Unlock()
		return nil
	}
	return lastErr
}

// fetch runs one resolve/exchange/validate round.
func fetch(server string, port int, timeout time.Duration) (*packet, error) {
	addr, err := resolve(server, port)
	if err != nil {
		return nil, err
	}
	resp, err := exchange(addr, timeout)
	if err != nil {
		return nil, err
	}
	if err := resp.validate(); err != nil {
		return nil, err
	}
	return resp, nil
}

// resolve looks the server up over IPv4 only.
func resolve(server string, port int) (*net.UDPAddr, error) {
	addr, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(server, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s: %v", ErrNetwork, server, err)
	}
	return addr, nil
}

// exchange sends one request from an ephemeral socket and reads one datagram
// within timeout. The socket is closed on every path.
func exchange(addr *net.UDPAddr, timeout time.Duration) (*packet, error) {
	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", ErrNetwork, addr, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("%w: set deadline: %v", ErrNetwork, err)
	}

	if _, err := conn.Write(newRequest(time.Now()).encode()); err != nil {
		return nil, fmt.Errorf("%w: send: %v", ErrNetwork, err)
	}

	buf := make([]byte, PacketSize)
	n, err := conn.Read(buf)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("%w: no response from %s within %v", ErrTimeout, addr, timeout)
		}
		return nil, fmt.Errorf("%w: receive: %v", ErrNetwork, err)
	}
	return decodePacket(buf[:n])
}

// CurrentTime returns corrected Unix seconds, or 0 before the first
// successful sync.
func (c *Client) CurrentTime() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.initialized || !c.everSynced {
		return 0
	}
	return time.Now().Unix() + c.offset
}

// CurrentTimeWithFraction returns corrected Unix seconds plus the local
// clock's sub-second fraction, or 0.0 before the first successful sync. The
// committed offset stays at whole seconds; only the fraction is live.
func (c *Client) CurrentTimeWithFraction() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.initialized || !c.everSynced {
		return 0
	}
	now := time.Now()
	return float64(now.Unix()+c.offset) + float64(now.Nanosecond())/1e9
}

// CurrentHundredths returns the hundredths-of-a-second digit pair in [0,99].
// Before the first sync it returns 0, which a synced clock can also read at a
// second boundary.
func (c *Client) CurrentHundredths() int {
	t := c.CurrentTimeWithFraction()
	if t == 0 {
		return 0
	}
	frac := t - math.Floor(t)
	return int(frac*100) % 100
}

// SecondsSinceSync returns whole seconds since the last successful sync, or
// -1 if there has been none.
func (c *Client) SecondsSinceSync() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.initialized || !c.everSynced {
		return -1
	}
	return int64(time.Since(c.lastSync).Seconds())
}

// HasSynced reports whether at least one sync has succeeded.
func (c *Client) HasSynced() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized && c.everSynced
}

// Offset returns the committed whole-second offset and whether one exists.
func (c *Client) Offset() (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.initialized || !c.everSynced {
		return 0, false
	}
	return c.offset, true
}

// ServerName returns the server of the last successful sync, truncated to
// 128 characters. ok is false before the first success.
func (c *Client) ServerName() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.initialized || !c.everSynced {
		return "", false
	}
	return truncateName(c.syncServer), true
}

// SetServer switches the server used by the next Sync call. State committed
// by earlier syncs is not touched.
func (c *Client) SetServer(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty server name", ErrInvalidParam)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return ErrNotInitialized
	}
	c.config.Server = name
	return nil
}

// SyncInterval reports the advisory resync interval from the config.
func (c *Client) SyncInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.SyncInterval
}

func truncateName(name string) string {
	if len(name) > serverNameMax {
		return name[:serverNameMax]
	}
	return name
}
