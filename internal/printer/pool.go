package printer

import (
	"fmt"
	"runtime"
	"sync"
)

// Pool holds open transports, one per printer, and reuses them across
// jobs.
type Pool struct {
	transports map[string]Transport
	baud       int
	mu         sync.RWMutex
}

// NewPool creates an empty transport pool. baud applies to serial
// connections; zero or negative selects DefaultBaudRate.
func NewPool(baud int) *Pool {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	return &Pool{transports: make(map[string]Transport), baud: baud}
}

// Connect opens a transport for the printer unless one is already open.
func (p *Pool) Connect(pr *Printer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.transports[pr.ID]; ok {
		return nil
	}

	var t Transport
	var err error

	switch pr.Type {
	case "usb":
		t, err = DialUSB(pr.VID, pr.PID)
		// On macOS a USB printer often surfaces as a serial device instead
		if err != nil && runtime.GOOS == "darwin" {
			for _, port := range scanSerialPorts() {
				if st, serr := DialSerial(port, p.baud); serr == nil {
					t, err = st, nil
					break
				}
			}
		}
	case "serial":
		t, err = DialSerial(pr.Device, p.baud)
	case "network":
		t, err = DialNetwork(pr.Host, pr.Port)
	default:
		return fmt.Errorf("unsupported printer type: %s", pr.Type)
	}

	if err != nil {
		return err
	}

	p.transports[pr.ID] = t
	return nil
}

// Send writes an encoded payload to a connected printer.
func (p *Pool) Send(printerID string, payload []byte) error {
	p.mu.RLock()
	t, ok := p.transports[printerID]
	p.mu.RUnlock()

	if !ok {
		return fmt.Errorf("printer not connected: %s", printerID)
	}

	_, err := t.Write(payload)
	return err
}

// Disconnect closes the transport for one printer.
func (p *Pool) Disconnect(printerID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, ok := p.transports[printerID]
	if !ok {
		return nil
	}

	err := t.Close()
	delete(p.transports, printerID)
	return err
}

// DisconnectAll closes every open transport.
func (p *Pool) DisconnectAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, t := range p.transports {
		t.Close()
		delete(p.transports, id)
	}
}

// IsConnected reports whether a transport is open for the printer.
func (p *Pool) IsConnected(printerID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	_, ok := p.transports[printerID]
	return ok
}
