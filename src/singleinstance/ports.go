package singleinstance

import (
	"os"
	"strconv"
)

const (
	defaultPortStart = 49560
	defaultPortEnd   = 49570
)

// getPortRange returns the configured TCP port range. SINGLEINSTANCE_PORT pins
// a single port; otherwise SINGLEINSTANCE_PORT_START and SINGLEINSTANCE_PORT_END
// (inclusive) apply. Values are clamped to [1024, 65535].
func getPortRange() (int, int) {
	start := defaultPortStart
	end := defaultPortEnd
	if v := os.Getenv("SINGLEINSTANCE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			start, end = n, n
		}
	} else {
		if v := os.Getenv("SINGLEINSTANCE_PORT_START"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				start = n
			}
		}
		if v := os.Getenv("SINGLEINSTANCE_PORT_END"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				end = n
			}
		}
	}
	if start < 1024 {
		start = 1024
	}
	if end > 65535 {
		end = 65535
	}
	if end < start {
		start, end = end, start
	}
	return start, end
}

// PortRange exposes the effective port range for logging.
func PortRange() (int, int) { return getPortRange() }
