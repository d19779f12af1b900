package printer

import (
	"fmt"
	"sync"

	"github.com/google/gousb"
)

// USBTransport sends payloads to a USB printer-class device through its
// bulk OUT endpoint.
type USBTransport struct {
	ctx      *gousb.Context
	device   *gousb.Device
	iface    *gousb.Interface
	endpoint *gousb.OutEndpoint
	mu       sync.Mutex
}

// DialUSB opens the printer with the given vendor and product IDs and
// claims the first interface exposing a bulk OUT endpoint.
func DialUSB(vid, pid uint16) (*USBTransport, error) {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("failed to open USB device: %w", err)
	}
	if dev == nil {
		ctx.Close()
		return nil, fmt.Errorf("device not found: %04X:%04X", vid, pid)
	}

	iface, endpoint, err := claimOutInterface(dev)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, err
	}

	return &USBTransport{
		ctx:      ctx,
		device:   dev,
		iface:    iface,
		endpoint: endpoint,
	}, nil
}

// claimOutInterface tries the default interface first, then walks every
// configuration looking for an OUT endpoint. Some printers need the
// kernel driver detached before the interface can be claimed.
func claimOutInterface(dev *gousb.Device) (*gousb.Interface, *gousb.OutEndpoint, error) {
	iface, _, err := dev.DefaultInterface()
	if err != nil {
		dev.SetAutoDetach(true)
		iface, _, err = dev.DefaultInterface()
	}
	if err == nil {
		if ep := outEndpoint(iface); ep != nil {
			return iface, ep, nil
		}
		iface.Close()
	}

	var lastErr error
	for _, cfgDesc := range dev.Desc.Configs {
		cfg, err := dev.Config(cfgDesc.Number)
		if err != nil {
			lastErr = fmt.Errorf("failed to set config %d: %w", cfgDesc.Number, err)
			continue
		}

		for _, ifaceDesc := range cfgDesc.Interfaces {
			iface, err := cfg.Interface(ifaceDesc.Number, 0)
			if err != nil {
				lastErr = fmt.Errorf("failed to claim interface %d: %w", ifaceDesc.Number, err)
				continue
			}
			if ep := outEndpoint(iface); ep != nil {
				return iface, ep, nil
			}
			iface.Close()
		}

		cfg.Close()
	}

	if lastErr != nil {
		return nil, nil, fmt.Errorf("failed to connect to USB printer: %w", lastErr)
	}
	return nil, nil, fmt.Errorf("no bulk OUT endpoint found on %s", dev.Desc.String())
}

func outEndpoint(iface *gousb.Interface) *gousb.OutEndpoint {
	for _, epDesc := range iface.Setting.Endpoints {
		if epDesc.Direction == gousb.EndpointDirectionOut {
			if ep, err := iface.OutEndpoint(epDesc.Number); err == nil {
				return ep
			}
		}
	}
	return nil
}

func (t *USBTransport) Write(data []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.endpoint.Write(data)
}

func (t *USBTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.iface != nil {
		t.iface.Close()
	}
	if t.device != nil {
		t.device.Close()
	}
	if t.ctx != nil {
		return t.ctx.Close()
	}
	return nil
}
