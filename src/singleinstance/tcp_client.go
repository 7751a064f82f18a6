package singleinstance

import (
	"context"
	"fmt"
	"log"
	"time"
)

type tcpClient struct{}

func newTcpClient() Client { return &tcpClient{} }

func (c *tcpClient) RequestCapture(ctx context.Context) (bool, error) {
	port, ok := DetectResidentPort(ctx)
	if !ok {
		return false, nil
	}
	log.Printf("singleinstance: resident found on port %d", port)
	status, err := exchange(residentAddr(port), captureRequest, timeoutFrom(ctx, 2*time.Second))
	if err != nil {
		return true, err
	}
	if status != captureAccepted {
		return true, fmt.Errorf("resident rejected capture request: %q", status)
	}
	return true, nil
}
