package port_reader

import (
	"io"
	"log"
	"time"

	"github.com/jacobsa/go-serial/serial"
)

// mockPort replays one packet on a timer, for running without hardware.
type mockPort struct {
	*io.PipeReader
	w *io.PipeWriter
}

func (m *mockPort) Write(p []byte) (int, error) {
	return len(p), nil
}

func (m *mockPort) Close() error {
	m.w.Close()
	return m.PipeReader.Close()
}

// MockOpener returns a PortOpener whose port emits packet every interval.
func MockOpener(packet []byte, interval time.Duration) PortOpener {
	return func(options serial.OpenOptions) (io.ReadWriteCloser, error) {
		log.Printf("Using mock serial port instead of %s", options.PortName)
		r, w := io.Pipe()

		// generate data periodically to simulate serial port input
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for range ticker.C {
				if _, err := w.Write(packet); err != nil {
					return
				}
			}
		}()

		return &mockPort{PipeReader: r, w: w}, nil
	}
}
