package network

import (
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// Config is the closed set of network options spec.md §3 defines, passed
// as an explicit value rather than read from global state.
type Config struct {
	// PeerIPs is the ordered list of N IPv4 addresses; index i is party
	// i's address.
	PeerIPs []string
	// BasePort is the port party i listens on: BasePort + i.
	BasePort uint16
	// Timeout is the total time the client side will retry a connect
	// before giving up.
	Timeout time.Duration
	// SleepTime is the delay between connect retries.
	SleepTime time.Duration
}

// configJSON mirrors the on-disk JSON shape from spec.md §6, where
// timeout/sleep_time are plain milliseconds rather than a Duration.
type configJSON struct {
	PeerIPs   []string `json:"peer_ips"`
	BasePort  uint16   `json:"base_port"`
	TimeoutMS int64    `json:"timeout"`
	SleepMS   int64    `json:"sleep_time"`
}

// LoadConfig parses a JSON configuration document per spec.md §6.
func LoadConfig(data []byte) (Config, error) {
	var raw configJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("network: parsing config: %w", err)
	}

	cfg := Config{
		PeerIPs:   raw.PeerIPs,
		BasePort:  raw.BasePort,
		Timeout:   time.Duration(raw.TimeoutMS) * time.Millisecond,
		SleepTime: time.Duration(raw.SleepMS) * time.Millisecond,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration is well-formed: a non-empty party
// list of valid IPv4 addresses, a non-zero port, and non-negative
// durations. This is a configuration error per spec.md §7: fatal before
// any I/O.
func (c Config) Validate() error {
	if len(c.PeerIPs) == 0 {
		return fmt.Errorf("network: config: peer_ips must not be empty")
	}
	for i, ip := range c.PeerIPs {
		if parsed := net.ParseIP(ip); parsed == nil || parsed.To4() == nil {
			return fmt.Errorf("network: config: peer_ips[%d] %q is not a valid IPv4 address", i, ip)
		}
	}
	if c.BasePort == 0 {
		return fmt.Errorf("network: config: base_port must be non-zero")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("network: config: timeout must be non-negative")
	}
	if c.SleepTime < 0 {
		return fmt.Errorf("network: config: sleep_time must be non-negative")
	}
	return nil
}

// N returns the number of parties this configuration describes.
func (c Config) N() int { return len(c.PeerIPs) }

// Addr returns the "ip:port" address for party i.
func (c Config) Addr(i int) string {
	return fmt.Sprintf("%s:%d", c.PeerIPs[i], c.BasePort+uint16(i))
}

// ListenAddr returns the local listen address for party id: it binds on
// all interfaces at its assigned port rather than its own advertised IP,
// so the node works the same whether peer_ips names a loopback address or
// a real interface.
func (c Config) ListenAddr(id int) string {
	return fmt.Sprintf(":%d", c.BasePort+uint16(id))
}
