package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Feed.Endpoint == "" {
		return errors.New("feed.endpoint is required")
	}
	if !strings.HasPrefix(c.Feed.Endpoint, "ws://") && !strings.HasPrefix(c.Feed.Endpoint, "wss://") {
		return fmt.Errorf("feed.endpoint must be a ws:// or wss:// URL, got %q", c.Feed.Endpoint)
	}

	if c.Feed.PageSize < 1 {
		return errors.New("feed.page_size must be >= 1")
	}
	if c.Feed.ReconnectDelay <= 0 {
		return errors.New("feed.reconnect_delay must be > 0")
	}

	if c.Transport.HandshakeTimeout <= 0 {
		return errors.New("transport.handshake_timeout must be > 0")
	}
	if c.Transport.WriteTimeout <= 0 {
		return errors.New("transport.write_timeout must be > 0")
	}
	if c.Transport.MessageBuffer < 1 {
		return errors.New("transport.message_buffer must be >= 1")
	}

	return nil
}
