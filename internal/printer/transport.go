// Package printer handles printer detection, connections, and delivery
// of encoded payloads.
package printer

import (
	"fmt"
	"net"
	"sync"
	"time"
)

const dialTimeout = 5 * time.Second

// Transport is a byte channel to one physical printer. Implementations
// are safe for concurrent use.
type Transport interface {
	Write(data []byte) (int, error)
	Close() error
}

// NetworkTransport sends payloads to a raw-socket (JetDirect style)
// network printer.
type NetworkTransport struct {
	conn net.Conn
	mu   sync.Mutex
}

// DialNetwork connects to a network printer at host:port.
func DialNetwork(host string, port int) (*NetworkTransport, error) {
	address := fmt.Sprintf("%s:%d", host, port)

	conn, err := net.DialTimeout("tcp", address, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to network printer: %w", err)
	}

	return &NetworkTransport{conn: conn}, nil
}

func (t *NetworkTransport) Write(data []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn.Write(data)
}

func (t *NetworkTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn != nil {
		return t.conn.Close()
	}
	return nil
}
