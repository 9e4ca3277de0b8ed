// Package scale reads weights from a serial scale.
package scale

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrUnavailable is returned when no weight could be read from the scale.
var ErrUnavailable = errors.New("scale unavailable")

// Reader yields the weight currently on the scale, in kilograms.
type Reader interface {
	ReadWeight(ctx context.Context) (float64, error)
}

// DeviceReader reads one newline-terminated reading from a character device such as /dev/ttyUSB0.
// The device is expected to be configured (baud rate, raw mode) outside the process.
type DeviceReader struct {
	Path    string
	Timeout time.Duration
}

func NewDeviceReader(path string, timeout time.Duration) *DeviceReader {
	return &DeviceReader{Path: path, Timeout: timeout}
}

type reading struct {
	line string
	err  error
}

// ReadWeight opens the device, waits up to Timeout for one line and parses it as a number.
// Every failure is reported as ErrUnavailable.
func (d *DeviceReader) ReadWeight(ctx context.Context) (float64, error) {
	f, err := os.OpenFile(d.Path, os.O_RDONLY, 0)
	if err != nil {
		return 0, fmt.Errorf("%w: open %s: %w", ErrUnavailable, d.Path, err)
	}
	defer func() { _ = f.Close() }()

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := make(chan reading, 1)
	go func() {
		line, err := bufio.NewReader(f).ReadString('\n')
		if err != nil && line == "" {
			ch <- reading{err: err}
			return
		}
		ch <- reading{line: line}
	}()

	select {
	case <-ctx.Done():
		// closing the device unblocks the pending read
		_ = f.Close()
		return 0, fmt.Errorf("%w: read %s: %w", ErrUnavailable, d.Path, ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return 0, fmt.Errorf("%w: read %s: %w", ErrUnavailable, d.Path, r.err)
		}
		return parseWeight(r.line)
	}
}

func parseWeight(line string) (float64, error) {
	w, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad reading %q: %w", ErrUnavailable, line, err)
	}
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return 0, fmt.Errorf("%w: bad reading %q", ErrUnavailable, line)
	}
	return w, nil
}

// Manual is a Reader for tills without a scale.
type Manual struct{}

func (Manual) ReadWeight(context.Context) (float64, error) { return 0, ErrUnavailable }
