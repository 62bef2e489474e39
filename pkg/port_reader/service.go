package port_reader

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/NotCoffee418/sf11_rangefinder/pkg/rangefinder"
	"github.com/NotCoffee418/sf11_rangefinder/pkg/types"
	"github.com/jacobsa/go-serial/serial"
)

// Bytes requested per read, same as the packet buffer.
const readSize = rangefinder.PacketCapacity

// Initialize a new RangeReader for one SF11 on options.Port.
func NewRangeReader(options Options, sensor types.SensorConfig) *RangeReader {
	if options.Open == nil {
		options.Open = serial.Open
	}
	store := rangefinder.NewReadingStore(sensor)
	return &RangeReader{
		options: options,
		parser:  rangefinder.NewPacketParser(store),
		store:   store,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start reading the sensor. Runs in goroutine.
// handleReading is called from the reading goroutine for every new reading, at
// most PublishRate times per second. handleError is called once when the
// reader gives up.
func (p *RangeReader) StartReading(
	handleReading func(reading types.Reading),
	handleError func(error),
) {
	go func() {
		defer close(p.done)

		// Tolerance before we report error.
		consecutiveErrors := 0
		maxErrors := 10
		var lastError error

		// Initialize the connection
		if err := p.connect(); err != nil {
			handleError(err)
			return
		}
		defer p.disconnect()

		rate := time.NewTicker(p.options.interval())
		defer rate.Stop()
		rxBuffer := make([]byte, readSize)

		for consecutiveErrors < maxErrors {
			select {
			case <-p.stop:
				log.Println("Stop signal received, disconnecting")
				return
			default:
			}

			n, err := p.serialPort.Read(rxBuffer)
			if n > 0 {
				p.parser.Feed(rxBuffer[:n])
			}
			// VTIME expired without data
			if errors.Is(err, io.EOF) && n == 0 {
				err = nil
			}
			if err != nil {
				consecutiveErrors++
				lastError = err
				log.Printf("Error reading serial port (%d/%d): %v", consecutiveErrors, maxErrors, err)
			} else {
				consecutiveErrors = 0
			}

			if p.store.HasNewData() {
				reading := p.store.Get()
				p.publish(&reading)
				handleReading(reading)
			}
			p.readingMutex.Lock()
			p.latestStats = p.store.Stats()
			p.readingMutex.Unlock()

			select {
			case <-p.stop:
				log.Println("Stop signal received, disconnecting")
				return
			case <-rate.C:
			}
		}

		log.Printf("Too many consecutive errors (%d), stopping reader: %v", maxErrors, lastError)
		handleError(lastError)
	}()
}

// StopReading stops the reading goroutine and waits for it to close the port.
// Safe to call more than once.
func (p *RangeReader) StopReading() {
	p.stopOnce.Do(func() { close(p.stop) })
	<-p.done
}

// GetLatestReading returns nil until the first reading was published.
func (p *RangeReader) GetLatestReading() *types.Reading {
	p.readingMutex.RLock()
	defer p.readingMutex.RUnlock()
	return p.latestReading
}

func (p *RangeReader) GetStats() rangefinder.Stats {
	p.readingMutex.RLock()
	defer p.readingMutex.RUnlock()
	return p.latestStats
}

func (p *RangeReader) publish(reading *types.Reading) {
	p.readingMutex.Lock()
	p.latestReading = reading
	p.readingMutex.Unlock()
}

// Open the connection to the sensor. 8N1, reads return after at most 100ms.
func (p *RangeReader) connect() error {
	options := serial.OpenOptions{
		PortName:              p.options.Port,
		BaudRate:              p.options.Baudrate,
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		MinimumReadSize:       0,
		InterCharacterTimeout: 100,
	}

	port, err := p.options.Open(options)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", p.options.Port, err)
	}

	if p.options.LockPort {
		if err := lockPort(port); err != nil {
			port.Close()
			return fmt.Errorf("%s: %w", p.options.Port, err)
		}
	}

	p.serialPort = port
	log.Printf("Connected to SF11 on %s", p.options.Port)
	return nil
}

func (p *RangeReader) disconnect() {
	if p.serialPort != nil {
		p.serialPort.Close()
		p.serialPort = nil
		log.Println("Disconnected from SF11")
	}
}
