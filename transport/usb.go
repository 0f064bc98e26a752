package transport

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/gousb"
)

// ifaceClassPrinter is the USB printer interface class code.
// Reference: http://www.usb.org/developers/defined_class
const ifaceClassPrinter = 0x07

// USB is a transport over a USB printer-class device.
type USB struct {
	vid, pid uint16

	ctx    *gousb.Context
	device *gousb.Device
	iface  *gousb.Interface
	out    *gousb.OutEndpoint
	in     *gousb.InEndpoint
	open   bool
}

// NewUSB creates a USB transport. With a zero vid/pid the first
// printer-class device found on the bus is used.
func NewUSB(vid, pid uint16) *USB {
	return &USB{vid: vid, pid: pid}
}

// isPrinter checks if a device exposes a printer-class interface.
func isPrinter(dev *gousb.Device) bool {
	if dev == nil {
		return false
	}

	cfgNum, err := dev.ActiveConfigNum()
	if err != nil {
		return false
	}
	cfg, err := dev.Config(cfgNum)
	if err != nil {
		return false
	}
	defer cfg.Close()

	for _, iface := range cfg.Desc.Interfaces {
		for _, alt := range iface.AltSettings {
			if alt.Class == ifaceClassPrinter {
				return true
			}
		}
	}
	return false
}

// findPrinter returns the first printer-class device on the bus.
func findPrinter(ctx *gousb.Context) (*gousb.Device, error) {
	devices, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return true
	})
	if err != nil {
		return nil, err
	}

	var printer *gousb.Device
	for _, dev := range devices {
		if printer == nil && isPrinter(dev) {
			printer = dev
			continue
		}
		dev.Close()
	}
	if printer == nil {
		return nil, errors.New("cannot find printer")
	}
	return printer, nil
}

func (u *USB) Open() error {
	if u.open {
		return nil
	}

	ctx := gousb.NewContext()

	var device *gousb.Device
	var err error
	if u.vid != 0 || u.pid != 0 {
		device, err = ctx.OpenDeviceWithVIDPID(gousb.ID(u.vid), gousb.ID(u.pid))
		if err == nil && device == nil {
			err = fmt.Errorf("usb device %04x:%04x not found", u.vid, u.pid)
		}
	} else {
		device, err = findPrinter(ctx)
	}
	if err != nil {
		ctx.Close()
		return err
	}

	if runtime.GOOS == "linux" {
		device.SetAutoDetach(true)
	}

	cfgNum, err := device.ActiveConfigNum()
	if err != nil {
		device.Close()
		ctx.Close()
		return fmt.Errorf("failed to get active config: %w", err)
	}
	cfg, err := device.Config(cfgNum)
	if err != nil {
		device.Close()
		ctx.Close()
		return fmt.Errorf("failed to get config: %w", err)
	}
	defer cfg.Close()

	printerIfaceNum := -1
	for _, iface := range cfg.Desc.Interfaces {
		for _, alt := range iface.AltSettings {
			if alt.Class == ifaceClassPrinter {
				printerIfaceNum = iface.Number
				break
			}
		}
		if printerIfaceNum >= 0 {
			break
		}
	}
	if printerIfaceNum < 0 {
		device.Close()
		ctx.Close()
		return errors.New("no printer interface found")
	}

	iface, err := cfg.Interface(printerIfaceNum, 0)
	if err != nil {
		device.Close()
		ctx.Close()
		return fmt.Errorf("failed to claim interface: %w", err)
	}

	for _, epDesc := range iface.Setting.Endpoints {
		if epDesc.Direction == gousb.EndpointDirectionOut && u.out == nil {
			if ep, err := iface.OutEndpoint(epDesc.Number); err == nil {
				u.out = ep
			}
		}
		if epDesc.Direction == gousb.EndpointDirectionIn && u.in == nil {
			if ep, err := iface.InEndpoint(epDesc.Number); err == nil {
				u.in = ep
			}
		}
	}

	if u.out == nil {
		iface.Close()
		device.Close()
		ctx.Close()
		u.in = nil
		return errors.New("cannot find output endpoint from printer")
	}

	u.ctx = ctx
	u.device = device
	u.iface = iface
	u.open = true
	return nil
}

func (u *USB) Write(p []byte) (int, error) {
	if !u.open {
		return 0, errors.New("usb device not open")
	}
	n, err := u.out.Write(p)
	if err != nil {
		return n, fmt.Errorf("usb write failed: %w", err)
	}
	return n, nil
}

func (u *USB) ReadRaw(n int, timeout time.Duration) ([]byte, error) {
	if !u.open {
		return nil, errors.New("usb device not open")
	}
	if u.in == nil {
		// Unidirectional device, behaves like a silent printer.
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	buf := make([]byte, n)
	got, err := u.in.ReadContext(ctx, buf)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		return nil, fmt.Errorf("usb read failed: %w", err)
	}
	return buf[:got], nil
}

func (u *USB) FlushInput() error {
	if !u.open || u.in == nil {
		return nil
	}
	// Drain stale interrupt data without waiting for more.
	_, err := u.ReadRaw(64, 10*time.Millisecond)
	return err
}

func (u *USB) Close() error {
	if !u.open {
		return nil
	}

	var errs []error
	if u.iface != nil {
		u.iface.Close()
		u.iface = nil
	}
	if u.device != nil {
		if err := u.device.Close(); err != nil {
			errs = append(errs, err)
		}
		u.device = nil
	}
	if u.ctx != nil {
		if err := u.ctx.Close(); err != nil {
			errs = append(errs, err)
		}
		u.ctx = nil
	}
	u.out = nil
	u.in = nil
	u.open = false

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func (u *USB) IsOpen() bool {
	return u.open
}
