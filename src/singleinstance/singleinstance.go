package singleinstance

// A resident instance owns a loopback TCP port. A second launch finds it,
// asks it to start a capture, and exits.

import (
	"context"
)

// Server owns the TCP endpoint and answers capture requests.
type Server interface {
	// Start binds the first port of the configured range and accepts clients.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Close releases ownership and stops accepting clients.
	Close() error
}

// Client delegates to a resident server.
type Client interface {
	// RequestCapture scans the port range for a resident and asks it to
	// start a capture. If no resident is found, returns delegated=false, err=nil.
	RequestCapture(ctx context.Context) (delegated bool, err error)
}

// NewServer returns the TCP implementation. onCapture runs on the accept
// goroutine for every capture request.
func NewServer(onCapture func()) Server { return newTcpServer(onCapture) }

// NewClient returns the TCP implementation.
func NewClient() Client { return newTcpClient() }
