package port_reader

import (
	"io"
	"sync"
	"time"

	"github.com/NotCoffee418/sf11_rangefinder/pkg/rangefinder"
	"github.com/NotCoffee418/sf11_rangefinder/pkg/types"
	"github.com/jacobsa/go-serial/serial"
)

// PortOpener opens the serial device. Replaced in tests.
type PortOpener func(options serial.OpenOptions) (io.ReadWriteCloser, error)

type Options struct {
	Port     string
	Baudrate uint
	// Maximum publish rate [Hz]
	PublishRate float64
	LockPort    bool
	Open        PortOpener
}

type RangeReader struct {
	options    Options
	serialPort io.ReadWriteCloser

	// Only touched by the reading goroutine
	parser *rangefinder.PacketParser
	store  *rangefinder.ReadingStore

	latestReading *types.Reading
	latestStats   rangefinder.Stats
	readingMutex  sync.RWMutex

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func (o Options) interval() time.Duration {
	return time.Duration(float64(time.Second) / o.PublishRate)
}
