// ABOUTME: Main clock application orchestration
// ABOUTME: Coordinates the sync engine, the TUI, and the resync schedule
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/chronoterm/chronoterm-go/internal/ntp"
	"github.com/chronoterm/chronoterm-go/internal/ui"
)

// unsyncedRetryDelay spaces out automatic re-attempts while the engine has
// never synced, so a dead server is not hammered every scheduler tick.
const unsyncedRetryDelay = 30 * time.Second

// Config holds clock application configuration.
type Config struct {
	Server       string
	Port         int
	Timeout      time.Duration
	RetryCount   int
	SyncInterval time.Duration
	Headless     bool
}

// Clock is the main application: one sync engine, one display, one scheduler
// goroutine that re-syncs when the interval elapses.
type Clock struct {
	config  Config
	client  *ntp.Client
	control *ui.Control
	tuiProg *tea.Program
	id      string
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a clock application around a validated sync engine.
func New(config Config) (*Clock, error) {
	client, err := ntp.NewClient(ntp.Config{
		Server:       config.Server,
		Port:         config.Port,
		Timeout:      config.Timeout,
		RetryCount:   config.RetryCount,
		SyncInterval: config.SyncInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sync engine: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Clock{
		config:  config,
		client:  client,
		control: ui.NewControl(),
		id:      uuid.New().String()[:8],
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}, nil
}

// Client exposes the sync engine, mainly for headless integrations.
func (c *Clock) Client() *ntp.Client {
	return c.client
}

// Start launches the display and the sync scheduler and blocks until Stop is
// called or the user quits the TUI.
func (c *Clock) Start() error {
	log.Printf("clock %s starting, server=%s interval=%v", c.id, c.config.Server, c.config.SyncInterval)

	if !c.config.Headless {
		prog, err := ui.NewProgram(c.client, c.control, c.config.SyncInterval)
		if err != nil {
			return fmt.Errorf("failed to start TUI: %w", err)
		}
		c.tuiProg = prog
	}

	go c.syncLoop()

	if c.tuiProg != nil {
		if _, err := c.tuiProg.Run(); err != nil {
			c.cancel()
			return fmt.Errorf("display error: %w", err)
		}
		c.cancel()
		<-c.done
		return nil
	}

	c.headlessLoop()
	<-c.done
	return nil
}

// Stop shuts down the scheduler and the display.
func (c *Clock) Stop() {
	c.cancel()
	if c.tuiProg != nil {
		c.tuiProg.Quit()
	}
	c.client.Close()
}

// syncLoop performs the initial sync, then re-syncs whenever the interval
// elapses, the engine has never synced, or the user asks for one.
func (c *Clock) syncLoop() {
	defer close(c.done)

	c.runSync()
	lastAttempt := time.Now()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.control.Quit:
			c.cancel()
			if c.tuiProg != nil {
				c.tuiProg.Quit()
			}
			return
		case <-c.control.SyncRequests:
			c.runSync()
			lastAttempt = time.Now()
		case <-ticker.C:
			since := c.client.SecondsSinceSync()
			switch {
			case since < 0:
				if time.Since(lastAttempt) >= unsyncedRetryDelay {
					c.runSync()
					lastAttempt = time.Now()
				}
			case c.config.SyncInterval > 0 && since >= int64(c.config.SyncInterval/time.Second):
				c.runSync()
				lastAttempt = time.Now()
			}
		}
	}
}

// runSync drives one Sync call and reports the outcome to the display.
func (c *Clock) runSync() {
	c.sendStatus(ui.StatusMsg{Syncing: true})

	if err := c.client.Sync(); err != nil {
		log.Printf("clock %s sync failed: %v", c.id, err)
		c.sendStatus(ui.StatusMsg{LastErr: err.Error()})
		return
	}

	offset, _ := c.client.Offset()
	server, _ := c.client.ServerName()
	log.Printf("clock %s synced with %s, offset %+ds", c.id, server, offset)
	c.sendStatus(ui.StatusMsg{})
}

func (c *Clock) sendStatus(msg ui.StatusMsg) {
	if c.tuiProg != nil {
		c.tuiProg.Send(msg)
	}
}

// headlessLoop logs one status line per second in place of the display.
func (c *Clock) headlessLoop() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if !c.client.HasSynced() {
				log.Printf("clock %s not synced yet", c.id)
				continue
			}
			server, _ := c.client.ServerName()
			log.Printf("clock %s time=%d server=%s since_sync=%ds",
				c.id, c.client.CurrentTime(), server, c.client.SecondsSinceSync())
		}
	}
}
