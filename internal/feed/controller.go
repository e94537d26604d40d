package feed

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tickerdash/feedclient/internal/model"
	"github.com/tickerdash/feedclient/internal/transport"
	"github.com/tickerdash/feedclient/internal/visibility"
)

// Config configures a Controller.
type Config struct {
	Endpoint  string           // Base ws:// or wss:// endpoint
	Policy    RetryPolicy      // Reconnection policy
	Transport transport.Config // Per-channel transport settings
}

// DefaultConfig returns sensible defaults for everything but the endpoint.
func DefaultConfig(endpoint string) Config {
	return Config{
		Endpoint:  endpoint,
		Policy:    DefaultRetryPolicy(),
		Transport: transport.DefaultConfig(),
	}
}

// Controller is the lifecycle engine for one view's channel. It owns exactly
// one transport channel and at most one pending retry timer, and it releases
// both on Shutdown; neither may outlive the owning view.
type Controller struct {
	cfg    Config
	view   View
	vis    *visibility.Watcher
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	cmds    chan func()
	stopped chan struct{}

	// Everything below is owned by the run loop.
	state           State
	ch              *transport.Channel
	msgCh           <-chan []byte
	closedCh        <-chan transport.CloseInfo
	gen             uint64 // channel generation, guards stale dial results
	retryTimer      *time.Timer
	retryC          <-chan time.Time
	resumeOnVisible bool
	shuttingDown    bool

	visCh <-chan visibility.Visibility

	// Mirror of loop-owned state for external readers.
	obs observed
}

// NewController creates a controller bound to view and starts its event
// loop. The controller is Idle until Connect is called.
func NewController(cfg Config, view View, vis *visibility.Watcher, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Policy.Delay <= 0 {
		cfg.Policy = DefaultRetryPolicy()
	}
	if cfg.Transport.MessageBuffer <= 0 {
		cfg.Transport = transport.DefaultConfig()
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		cfg:     cfg,
		view:    view,
		vis:     vis,
		logger:  logger.With("view", view.Kind(), "ctrl", shortID()),
		ctx:     ctx,
		cancel:  cancel,
		cmds:    make(chan func()),
		stopped: make(chan struct{}),
		state:   StateIdle,
		visCh:   vis.Subscribe(),
	}

	go c.run()
	return c
}

func shortID() string {
	return uuid.NewString()[:8]
}

// Connect brings the channel up. If a channel for this identity is already
// open or connecting the call is a no-op; otherwise any existing channel is
// torn down and a fresh one dialed.
func (c *Controller) Connect() {
	c.post(func() { c.handleConnect() })
}

// Request sends v on the open channel. A request issued while the channel is
// not open is dropped silently; the view re-issues on the next open.
func (c *Controller) Request(v any) {
	c.post(func() { c.handleRequest(v) })
}

// Shutdown terminally tears the controller down: the pending retry timer is
// cancelled, the channel closed, and no further state transition occurs.
// It blocks until the event loop has exited and is safe to call repeatedly.
func (c *Controller) Shutdown() {
	c.post(func() { c.handleShutdown() })
	<-c.stopped
}

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.obs.state() }

// Live reports whether the channel is open.
func (c *Controller) Live() bool { return c.obs.state() == StateOpen }

// LastError returns the latest error text, cleared on a successful open.
func (c *Controller) LastError() string { return c.obs.lastError() }

// post hands f to the event loop. After shutdown it is a no-op rather than
// a deadlock: callers racing teardown simply lose.
func (c *Controller) post(f func()) {
	select {
	case c.cmds <- f:
	case <-c.stopped:
	}
}

func (c *Controller) run() {
	defer close(c.stopped)

	for {
		select {
		case f := <-c.cmds:
			f()

		case v := <-c.visCh:
			c.handleVisibility(v)

		case raw, ok := <-c.msgCh:
			if !ok {
				c.msgCh = nil
				continue
			}
			c.handleMessage(raw)

		case info := <-c.closedCh:
			c.handleClosed(info)

		case <-c.retryC:
			c.retryC = nil
			c.retryTimer = nil
			c.logger.Info("retry timer fired")
			c.handleConnect()
		}

		if c.shuttingDown {
			return
		}
	}
}

func (c *Controller) handleConnect() {
	if c.shuttingDown {
		return
	}
	switch c.state {
	case StateConnecting, StateOpen:
		// Idempotent: one underlying channel, no duplicates.
		return
	}

	c.stopRetry()
	c.resumeOnVisible = false

	if c.ch != nil {
		c.setState(StateClosing)
		c.ch.Close()
		c.detach()
	}

	c.dial()
}

// dial starts a connect attempt without blocking the loop. The result comes
// back as a command tagged with the channel generation it belongs to, so a
// result that arrives after being superseded is discarded.
func (c *Controller) dial() {
	c.setState(StateConnecting)
	c.gen++
	gen := c.gen
	url := c.view.Endpoint(c.cfg.Endpoint)

	c.logger.Debug("dialing", "url", url)

	go func() {
		ch, err := transport.Dial(c.ctx, url, c.cfg.Transport, c.logger)
		select {
		case c.cmds <- func() { c.dialDone(gen, ch, err) }:
		case <-c.stopped:
			// Shutdown won the race; the fresh channel must not outlive it.
			if ch != nil {
				ch.Close()
			}
		}
	}()
}

func (c *Controller) dialDone(gen uint64, ch *transport.Channel, err error) {
	if c.shuttingDown || gen != c.gen {
		if ch != nil {
			ch.Close()
		}
		return
	}

	if err != nil {
		// Construction failure takes the same path as an unclean close.
		c.logger.Warn("connect failed", "error", err)
		c.afterClose(transport.CloseInfo{Clean: false, Err: err})
		return
	}

	c.ch = ch
	c.msgCh = ch.Messages()
	c.closedCh = ch.Closed()
	c.setState(StateOpen)
	c.obs.setLastError("")
	c.logger.Info("channel open")

	c.view.OnOpen(ch.Send)
}

func (c *Controller) handleRequest(v any) {
	if c.state != StateOpen {
		c.logger.Debug("request dropped, channel not open", "state", c.state)
		return
	}
	if err := c.ch.Send(v); err != nil {
		c.logger.Warn("send failed", "error", err)
		c.obs.setLastError(err.Error())
	}
}

func (c *Controller) handleMessage(raw []byte) {
	if c.shuttingDown {
		return
	}
	if err := c.view.Apply(raw); err != nil {
		var derr *model.DecodeError
		if errors.As(err, &derr) {
			// Malformed payload is local: discard, connection untouched.
			c.logger.Warn("discarding malformed message", "error", err)
			return
		}
		c.logger.Warn("apply failed", "error", err)
	}
}

func (c *Controller) handleClosed(info transport.CloseInfo) {
	c.logger.Info("channel closed", "clean", info.Clean, "error", info.Err)
	c.afterClose(info)
}

func (c *Controller) afterClose(info transport.CloseInfo) {
	c.detach()

	if info.Err != nil {
		c.obs.setLastError(info.Err.Error())
	}

	d := c.cfg.Policy.Decide(info.Clean, c.vis.Current(), c.shuttingDown)
	switch d {
	case DropTerminal:
		c.setState(StateClosedTerminal)

	case AwaitVisible:
		c.setState(StateClosedRetrying)
		c.resumeOnVisible = true
		c.logger.Info("surface hidden, reconnect deferred until visible")

	case RetryAfter:
		c.setState(StateClosedRetrying)
		c.scheduleRetry()
	}
}

func (c *Controller) handleVisibility(v visibility.Visibility) {
	if c.shuttingDown {
		return
	}
	if v == visibility.Visible && c.resumeOnVisible {
		c.resumeOnVisible = false
		c.logger.Info("surface visible again, reconnecting")
		c.handleConnect()
	}
}

// scheduleRetry arms the single retry timer. Rescheduling replaces any
// pending timer; timers never stack.
func (c *Controller) scheduleRetry() {
	c.stopRetry()
	c.retryTimer = time.NewTimer(c.cfg.Policy.Delay)
	c.retryC = c.retryTimer.C
	c.logger.Info("retry scheduled", "delay", c.cfg.Policy.Delay)
}

func (c *Controller) stopRetry() {
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
		c.retryC = nil
	}
}

func (c *Controller) handleShutdown() {
	if c.shuttingDown {
		return
	}
	c.shuttingDown = true
	c.cancel()
	c.stopRetry()
	c.resumeOnVisible = false

	if c.ch != nil {
		c.setState(StateClosing)
		c.ch.Close()
		c.detach()
	}
	c.setState(StateClosedTerminal)
	c.logger.Info("controller shut down")
}

// detach discards the current channel's reference and event sources. Events
// a discarded channel emits afterwards are simply never selected.
func (c *Controller) detach() {
	c.ch = nil
	c.msgCh = nil
	c.closedCh = nil
}

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	c.logger.Debug("state", "from", c.state, "to", s)
	c.state = s
	c.obs.setState(s)
}
