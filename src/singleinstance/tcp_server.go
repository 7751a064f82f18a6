package singleinstance

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"sync"
	"time"
)

const (
	residentHost    = "127.0.0.1"
	pingRequest     = "PING\n"
	pongResponse    = "PONG\n"
	captureRequest  = "CAPTURE\n"
	captureAccepted = "OK\n"
	unknownRequest  = "ERROR\n"
)

// tcpServer implements Server over TCP loopback.
type tcpServer struct {
	mu        sync.Mutex
	lis       net.Listener
	port      int
	onCapture func()
}

func newTcpServer(onCapture func()) Server { return &tcpServer{onCapture: onCapture} }

// Start binds ONLY the start port of the configured range. If occupied, fail.
func (s *tcpServer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lis != nil {
		return nil
	}
	start, _ := getPortRange()
	addr := fmt.Sprintf("%s:%d", residentHost, start)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("singleinstance: failed to bind %s: %v", addr, err)
		return err
	}
	s.lis = lis
	s.port = start
	log.Printf("singleinstance: listening on %s", addr)
	go s.acceptLoop(ctx, lis)
	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()
	return nil
}

// Port returns the bound port (0 if not started).
func (s *tcpServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

func (s *tcpServer) acceptLoop(ctx context.Context, lis net.Listener) {
	for {
		c, err := lis.Accept()
		if err != nil {
			return
		}
		s.serve(c)
		if ctx.Err() != nil {
			return
		}
	}
}

func (s *tcpServer) serve(c net.Conn) {
	defer c.Close()
	remote := c.RemoteAddr().String()
	_ = c.SetDeadline(time.Now().Add(3 * time.Second))
	line, _ := bufio.NewReader(c).ReadString('\n')
	bw := bufio.NewWriter(c)
	switch line {
	case pingRequest:
		log.Printf("singleinstance: PING from %s -> PONG", remote)
		_, _ = bw.WriteString(pongResponse)
	case captureRequest:
		log.Printf("singleinstance: capture requested by %s", remote)
		if s.onCapture != nil {
			s.onCapture()
		}
		_, _ = bw.WriteString(captureAccepted)
	default:
		log.Printf("singleinstance: unknown request %q from %s", line, remote)
		_, _ = bw.WriteString(unknownRequest)
	}
	_ = bw.Flush()
}

func (s *tcpServer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lis != nil {
		_ = s.lis.Close()
		s.lis = nil
		s.port = 0
	}
	return nil
}
