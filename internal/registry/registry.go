// Package registry assigns stable IDs to printers across restarts and
// stores their user-assigned names.
package registry

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
)

// Registry persists printer identities to a JSON file. A printer keeps
// its ID as long as its identity (bus address, device path or host) is
// unchanged, so names and job history survive re-detection.
type Registry struct {
	path    string
	entries map[string]*Entry
	mu      sync.RWMutex
}

// Entry is one persisted printer record.
type Entry struct {
	ID          string `json:"id"`
	IdentityKey string `json:"identity_key"`
	Type        string `json:"type"` // usb, serial, network
	VID         uint16 `json:"vid,omitempty"`
	PID         uint16 `json:"pid,omitempty"`
	Device      string `json:"device,omitempty"`
	Host        string `json:"host,omitempty"`
	Port        int    `json:"port,omitempty"`
	Description string `json:"description"`
	Name        string `json:"name,omitempty"`
}

// Identity carries the detection-time attributes used to derive a
// printer's identity key.
type Identity struct {
	Type        string
	Description string
	Device      string
	VID         uint16
	PID         uint16
	Host        string
	Port        int
}

// Open loads the registry file, creating an empty registry when the
// file does not exist yet.
func Open(path string) (*Registry, error) {
	r := &Registry{
		path:    path,
		entries: make(map[string]*Entry),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	if err := json.Unmarshal(data, &r.entries); err != nil {
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}

	return r, nil
}

// Resolve returns the persistent ID for a detected printer, minting and
// persisting a new one on first sight.
func (r *Registry) Resolve(id Identity) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := identityKey(id)
	if entry, ok := r.entries[key]; ok {
		return entry.ID
	}

	entry := &Entry{
		ID:          uuid.New().String(),
		IdentityKey: key,
		Type:        id.Type,
		VID:         id.VID,
		PID:         id.PID,
		Device:      id.Device,
		Host:        id.Host,
		Port:        id.Port,
		Description: id.Description,
	}
	r.entries[key] = entry

	// A failed save is retried implicitly on the next mutation
	_ = r.save()

	return entry.ID
}

// Name returns the user-assigned name for a printer, or "".
func (r *Registry) Name(printerID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e := r.byID(printerID); e != nil {
		return e.Name
	}
	return ""
}

// Rename assigns a custom name to a printer.
func (r *Registry) Rename(printerID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.byID(printerID)
	if e == nil {
		return fmt.Errorf("unknown printer: %s", printerID)
	}
	e.Name = name
	return r.save()
}

// Lookup returns a copy of the stored entry for a printer, or nil.
func (r *Registry) Lookup(printerID string) *Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e := r.byID(printerID); e != nil {
		cp := *e
		return &cp
	}
	return nil
}

// Remove deletes a printer record.
func (r *Registry) Remove(printerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, e := range r.entries {
		if e.ID == printerID {
			delete(r.entries, key)
			return r.save()
		}
	}
	return fmt.Errorf("unknown printer: %s", printerID)
}

// All returns copies of every stored entry.
func (r *Registry) All() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		cp := *e
		result = append(result, &cp)
	}
	return result
}

// byID scans for an entry by printer ID; callers hold the lock.
func (r *Registry) byID(printerID string) *Entry {
	for _, e := range r.entries {
		if e.ID == printerID {
			return e
		}
	}
	return nil
}

func (r *Registry) save() error {
	data, err := json.MarshalIndent(r.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0o644)
}

// identityKey derives a stable key from the attributes that survive
// replugging: bus identity for USB, device path for serial, endpoint
// for network. Anything else hashes its description.
func identityKey(id Identity) string {
	switch id.Type {
	case "usb":
		if id.VID != 0 && id.PID != 0 {
			return fmt.Sprintf("usb:%04X:%04X", id.VID, id.PID)
		}
	case "serial":
		if id.Device != "" {
			return "serial:" + id.Device
		}
	case "network":
		if id.Host != "" {
			return fmt.Sprintf("network:%s:%d", id.Host, id.Port)
		}
	}

	sum := sha256.Sum256([]byte(id.Description))
	return fmt.Sprintf("hash:%x", sum[:8])
}
