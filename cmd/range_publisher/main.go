// Range publisher reads the SF11 serial port and broadcasts the readings.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NotCoffee418/sf11_rangefinder/pkg/config"
	"github.com/NotCoffee418/sf11_rangefinder/pkg/pathing"
	"github.com/NotCoffee418/sf11_rangefinder/pkg/port_reader"
	"github.com/NotCoffee418/sf11_rangefinder/pkg/publisher"
	"github.com/NotCoffee418/sf11_rangefinder/pkg/types"
)

// Packet replayed when mock_serial is set
var mockPacket = []byte("12.34 m 4.10 V 55.00\r\n")

func main() {
	if err := pathing.EnsureDirs(); err != nil {
		log.Fatalf("Failed to create directories: %v", err)
	}

	// Load config
	if err := config.LoadRangePublisherConfig(); err != nil {
		log.Fatalf("Failed to load range publisher config: %v", err)
	}
	cfg := config.ActiveRangePublisherConfig

	options := port_reader.Options{
		Port:        cfg.SerialDevice,
		Baudrate:    cfg.Baudrate,
		PublishRate: cfg.PublishRate,
		LockPort:    cfg.LockPort,
	}
	if cfg.MockSerial {
		options.Open = port_reader.MockOpener(mockPacket, 100*time.Millisecond)
	}

	hub := publisher.NewHub()
	reader := port_reader.NewRangeReader(options, cfg.SensorConfig())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start reading the sensor, losing it is fatal
	reader.StartReading(
		func(reading types.Reading) {
			hub.Broadcast(reading)
		},
		func(err error) {
			if err != nil {
				log.Fatalf("Error reading SF11: %v", err)
			}
		},
	)

	listener := fmt.Sprintf("%s:%d", cfg.ListenAddress, cfg.ListenPort)
	server := &http.Server{
		Addr:    listener,
		Handler: publisher.Routes(reader, hub),
	}

	go func() {
		<-ctx.Done()
		log.Println("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("Starting SF11 range publisher on %s", listener)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	reader.StopReading()
}
