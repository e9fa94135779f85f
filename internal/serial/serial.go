// Package serial provides the transport to a polled serial device.
//
// Only opening the port is fatal: once polling starts, read and write failures
// are returned to the caller, which treats them as "no data this cycle" and
// keeps going.
package serial

import (
	"io"
	"time"

	"github.com/serscope/serscope/internal/errors"
	"github.com/tarm/serial"
)

// readChunkSize is the per-read buffer size when draining the port.
const readChunkSize = 4096

// DefaultReadTimeout bounds a single read so ReadAvailable never blocks a
// poll cycle for long.
const DefaultReadTimeout = 100 * time.Millisecond

// Transport is the device connection consumed by the poller.
type Transport interface {
	// Send writes a request to the device.
	Send(data []byte) error

	// ReadAvailable drains whatever the device has sent so far and returns it
	// decoded as a string. Returns "" when nothing is ready.
	ReadAvailable() (string, error)

	// Close releases the port.
	Close() error
}

// Port is a Transport backed by a real serial device.
type Port struct {
	p *serial.Port
}

// Open opens the serial device at the given baud rate. Failure to open is the
// one fatal transport error: without a data source there is nothing to poll.
func Open(device string, baud int) (*Port, error) {
	cfg := &serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: DefaultReadTimeout,
	}

	p, err := serial.OpenPort(cfg)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSerial,
			"Cannot open serial port "+device,
			"Check the device path and that no other program holds the port")
	}

	return &Port{p: p}, nil
}

// Send writes the request bytes to the device.
func (s *Port) Send(data []byte) error {
	_, err := s.p.Write(data)
	return err
}

// ReadAvailable drains pending bytes from the port. A read timeout with no
// data is not an error; undecodable bytes are kept as-is (the protocol parser
// simply won't match them).
func (s *Port) ReadAvailable() (string, error) {
	var out []byte
	buf := make([]byte, readChunkSize)

	for {
		n, err := s.p.Read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err != nil {
			if err == io.EOF {
				// Read timeout: the device has nothing more for us
				break
			}
			return string(out), err
		}
		if n < readChunkSize {
			break
		}
	}

	return string(out), nil
}

// Close releases the serial port.
func (s *Port) Close() error {
	return s.p.Close()
}
