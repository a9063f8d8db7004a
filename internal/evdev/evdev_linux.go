//go:build linux

package evdev

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unsafe"

	"github.com/leandrodaf/midisteno/sdk/contracts"
	"golang.org/x/sys/unix"
)

var ErrNoDevices = errors.New("no input event devices found")

// Source reads one /dev/input/eventN device.
type Source struct {
	logger   contracts.Logger
	path     string
	grab     bool
	velocity int

	mu   sync.Mutex
	file *os.File
	wg   sync.WaitGroup
}

// ListDevices returns every readable event device with its kernel name.
func ListDevices() ([]contracts.DeviceInfo, error) {
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoDevices
	}
	sort.Strings(paths)
	devices := make([]contracts.DeviceInfo, 0, len(paths))
	for _, p := range paths {
		name := filepath.Base(p)
		if b, err := os.ReadFile(filepath.Join("/sys/class/input", name, "device/name")); err == nil {
			name = strings.TrimSpace(string(b))
		}
		devices = append(devices, contracts.DeviceInfo{Name: name, EntityName: filepath.Base(p), Path: p})
	}
	return devices, nil
}

// NewSource reads path. With grab set the device is taken exclusively so its
// keystrokes do not also reach the desktop.
func NewSource(path string, grab bool, velocity int, logger contracts.Logger) *Source {
	if velocity <= 0 {
		velocity = DefaultVelocity
	}
	return &Source{logger: logger, path: path, grab: grab, velocity: velocity}
}

// Start opens the device and forwards key events until Stop.
func (s *Source) Start(events chan<- contracts.RawEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file != nil {
		return fmt.Errorf("evdev source %s already started", s.path)
	}

	fd, err := unix.Open(s.path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	if s.grab {
		var one int32 = 1
		if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), eviocgrab(), uintptr(unsafe.Pointer(&one))); errno != 0 {
			s.logger.Warn("Exclusive grab failed; keys will also reach other applications",
				s.logger.Field().String("path", s.path),
				s.logger.Field().Error("error", errno))
		}
	}
	s.file = os.NewFile(uintptr(fd), s.path)

	s.wg.Add(1)
	go s.read(s.file, events)
	s.logger.Info("Keyboard capture started", s.logger.Field().String("path", s.path))
	return nil
}

func (s *Source) read(f *os.File, events chan<- contracts.RawEvent) {
	defer s.wg.Done()
	d := decoder{size: recordSize(), velocity: s.velocity}
	buf := make([]byte, 64*d.size)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			d.feed(buf[:n], time.Now(), func(ev contracts.RawEvent) {
				select {
				case events <- ev:
				default:
					s.logger.Warn("Key event channel is full; event discarded")
				}
			})
		}
		if err != nil {
			if !errors.Is(err, os.ErrClosed) {
				s.logger.Error("Keyboard read failed", s.logger.Field().Error("error", err))
			}
			return
		}
	}
}

// Stop releases the device and waits for the reader.
func (s *Source) Stop() error {
	s.mu.Lock()
	f := s.file
	s.file = nil
	s.mu.Unlock()
	if f == nil {
		return nil
	}
	err := f.Close()
	s.wg.Wait()
	return err
}

func recordSize() int {
	return int(unsafe.Sizeof(unix.Timeval{})) + 8
}

// eviocgrab encodes EVIOCGRAB = _IOW('E', 0x90, int).
func eviocgrab() uintptr {
	const (
		iocWrite     = 1
		iocNRShift   = 0
		iocTypeShift = 8
		iocSizeShift = 16
		iocDirShift  = 30
	)
	return uintptr(iocWrite<<iocDirShift | 'E'<<iocTypeShift | 0x90<<iocNRShift | 4<<iocSizeShift)
}
