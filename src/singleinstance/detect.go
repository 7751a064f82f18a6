package singleinstance

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"time"
)

const defaultPingTimeout = 300 * time.Millisecond

// DetectResidentPort returns the port of the first resident in the range that
// answers PING.
func DetectResidentPort(ctx context.Context) (int, bool) {
	timeout := timeoutFrom(ctx, defaultPingTimeout)
	start, end := getPortRange()
	for port := start; port <= end; port++ {
		if ctx.Err() != nil {
			return 0, false
		}
		if resp, err := exchange(residentAddr(port), pingRequest, timeout); err == nil && resp == pongResponse {
			return port, true
		}
	}
	return 0, false
}

func residentAddr(port int) string {
	return net.JoinHostPort(residentHost, strconv.Itoa(port))
}

// timeoutFrom uses the time left on ctx, or def when ctx has no deadline.
func timeoutFrom(ctx context.Context, def time.Duration) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			return d
		}
	}
	return def
}

// exchange sends one request line and reads one response line.
func exchange(addr, request string, timeout time.Duration) (string, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return "", err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))
	if _, err := conn.Write([]byte(request)); err != nil {
		return "", fmt.Errorf("write %q: %w", request, err)
	}
	resp, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read reply to %q: %w", request, err)
	}
	return resp, nil
}
