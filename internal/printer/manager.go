package printer

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/gousb"
	"github.com/tarm/serial"
	"go.uber.org/zap"

	"github.com/posline/escpos-engine/internal/registry"
)

// Manager detects printers and tracks their stable identities.
type Manager struct {
	registry *registry.Registry
	log      *zap.Logger
	printers map[string]*Printer
	mu       sync.RWMutex

	onAdded   func(*Printer)
	onRemoved func(string)
}

// Printer is one detected or manually registered printer.
type Printer struct {
	ID          string `json:"id"`
	Type        string `json:"type"` // usb, serial, network
	Description string `json:"description"`
	Device      string `json:"device,omitempty"`
	VID         uint16 `json:"vid,omitempty"`
	PID         uint16 `json:"pid,omitempty"`
	Host        string `json:"host,omitempty"`
	Port        int    `json:"port,omitempty"`
	Name        string `json:"name,omitempty"`
}

// NewManager creates a manager backed by the registry file at the given
// path.
func NewManager(registryPath string, log *zap.Logger) (*Manager, error) {
	reg, err := registry.Open(registryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open printer registry: %w", err)
	}

	return &Manager{
		registry: reg,
		log:      log,
		printers: make(map[string]*Printer),
	}, nil
}

// Detect scans USB and serial buses and replaces the current printer
// set with what it finds. Manually added network printers are kept.
func (m *Manager) Detect() ([]*Printer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var printers []*Printer

	usbPrinters, err := m.detectUSB()
	if err != nil {
		m.log.Warn("usb detection failed", zap.Error(err))
	} else {
		printers = append(printers, usbPrinters...)
	}

	serialPrinters, err := m.detectSerial()
	if err != nil {
		m.log.Warn("serial detection failed", zap.Error(err))
	} else {
		printers = append(printers, serialPrinters...)
	}

	// Network printers cannot be discovered by scanning; carry them over
	for _, p := range m.printers {
		if p.Type == "network" {
			printers = append(printers, p)
		}
	}

	m.printers = make(map[string]*Printer, len(printers))
	for _, p := range printers {
		m.printers[p.ID] = p
	}

	return printers, nil
}

// Get returns a printer by ID, or nil.
func (m *Manager) Get(id string) *Printer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.printers[id]
}

// All returns every known printer.
func (m *Manager) All() []*Printer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Printer, 0, len(m.printers))
	for _, p := range m.printers {
		result = append(result, p)
	}
	return result
}

// Rename stores a custom name for a printer.
func (m *Manager) Rename(id, name string) error {
	if err := m.registry.Rename(id, name); err != nil {
		return err
	}

	m.mu.Lock()
	if p, ok := m.printers[id]; ok {
		p.Name = name
	}
	m.mu.Unlock()

	return nil
}

// AddNetwork registers a network printer by endpoint and returns its
// stable ID.
func (m *Manager) AddNetwork(host string, port int, description string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if description == "" {
		description = fmt.Sprintf("Network: %s:%d", host, port)
	}

	id := m.registry.Resolve(registry.Identity{
		Type:        "network",
		Host:        host,
		Port:        port,
		Description: description,
	})

	m.printers[id] = &Printer{
		ID:          id,
		Type:        "network",
		Description: description,
		Host:        host,
		Port:        port,
		Name:        m.registry.Name(id),
	}

	m.log.Info("network printer added",
		zap.String("id", id),
		zap.String("host", host),
		zap.Int("port", port))

	return id
}

// OnAdded registers a callback invoked when the monitor sees a new
// printer.
func (m *Manager) OnAdded(callback func(*Printer)) {
	m.onAdded = callback
}

// OnRemoved registers a callback invoked when a printer disappears.
func (m *Manager) OnRemoved(callback func(string)) {
	m.onRemoved = callback
}

// detectUSB enumerates USB devices and keeps those exposing the printer
// device class on any interface.
func (m *Manager) detectUSB() ([]*Printer, error) {
	ctx := gousb.NewContext()
	defer ctx.Close()

	var printers []*Printer

	devices, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate USB devices: %w", err)
	}

	for _, dev := range devices {
		desc := dev.Desc

		if !isPrinterClass(desc) {
			dev.Close()
			continue
		}

		manufacturer, _ := dev.Manufacturer()
		product, _ := dev.Product()

		description := fmt.Sprintf("USB: %04X:%04X", desc.Vendor, desc.Product)
		if manufacturer != "" || product != "" {
			description = fmt.Sprintf("USB: %s %s (%04X:%04X)",
				manufacturer, product, desc.Vendor, desc.Product)
		}

		id := m.registry.Resolve(registry.Identity{
			Type:        "usb",
			VID:         uint16(desc.Vendor),
			PID:         uint16(desc.Product),
			Description: description,
		})

		printers = append(printers, &Printer{
			ID:          id,
			Type:        "usb",
			Description: description,
			VID:         uint16(desc.Vendor),
			PID:         uint16(desc.Product),
			Name:        m.registry.Name(id),
		})
		dev.Close()
	}

	return printers, nil
}

func isPrinterClass(desc *gousb.DeviceDesc) bool {
	if desc.Class == gousb.ClassPrinter {
		return true
	}
	for _, cfg := range desc.Configs {
		for _, iface := range cfg.Interfaces {
			for _, alt := range iface.AltSettings {
				if alt.Class == gousb.ClassPrinter {
					return true
				}
			}
		}
	}
	return false
}

// detectSerial probes the platform's serial ports; a port that opens is
// assumed reachable.
func (m *Manager) detectSerial() ([]*Printer, error) {
	var printers []*Printer

	for _, portPath := range scanSerialPorts() {
		port, err := serial.OpenPort(&serial.Config{Name: portPath, Baud: DefaultBaudRate})
		if err != nil {
			continue
		}
		port.Close()

		description := "Serial: " + filepath.Base(portPath)

		id := m.registry.Resolve(registry.Identity{
			Type:        "serial",
			Device:      portPath,
			Description: description,
		})

		printers = append(printers, &Printer{
			ID:          id,
			Type:        "serial",
			Description: description,
			Device:      portPath,
			Name:        m.registry.Name(id),
		})
	}

	return printers, nil
}
