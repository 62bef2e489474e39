package rangeclient

import (
	"context"
	"errors"
	"log"
	"net/url"
	"time"

	"github.com/NotCoffee418/sf11_rangefinder/pkg/types"
	"github.com/gorilla/websocket"
)

var ErrMaxRetries = errors.New("max connection retries reached")

type Options struct {
	Host       string
	TLSEnabled bool
	// Probe the host with ICMP before each dial
	PingBeforeDial bool

	MaxRetries     int
	BaseRetryDelay time.Duration
	MaxRetryDelay  time.Duration
	// Extended by every reading and every pong, so keep PingInterval shorter
	ReadTimeout  time.Duration
	PingInterval time.Duration
}

func DefaultOptions(host string) Options {
	return Options{
		Host:           host,
		MaxRetries:     10,
		BaseRetryDelay: 2 * time.Second,
		MaxRetryDelay:  60 * time.Second,
		ReadTimeout:    60 * time.Second,
		PingInterval:   30 * time.Second,
	}
}

func (o Options) url() url.URL {
	scheme := "ws"
	if o.TLSEnabled {
		scheme = "wss"
	}
	return url.URL{Scheme: scheme, Host: o.Host, Path: "/ws"}
}

// StartListener manages the websocket connection to range_publisher and calls
// funcToCall for each reading until ctx is done. It returns ErrMaxRetries when
// the publisher stays unreachable.
func StartListener(ctx context.Context, options Options, funcToCall func(reading *types.Reading)) error {
	u := options.url()
	retryCount := 0

	for {
		if ctx.Err() != nil {
			log.Println("Shutting down listener")
			return nil
		}

		// Calculate retry delay with exponential backoff
		if retryCount > 0 {
			retryDelay := time.Duration(1<<(retryCount-1)) * options.BaseRetryDelay
			if retryDelay > options.MaxRetryDelay {
				retryDelay = options.MaxRetryDelay
			}
			log.Printf("Retrying connection in %v... (attempt %d/%d)", retryDelay, retryCount+1, options.MaxRetries)
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				log.Println("Shutting down during retry wait")
				return nil
			}
		}

		if options.PingBeforeDial {
			if err := probe(u.Hostname()); err != nil {
				log.Printf("Publisher %s unreachable: %v", u.Hostname(), err)
				retryCount++
				if retryCount >= options.MaxRetries {
					return ErrMaxRetries
				}
				continue
			}
		}

		log.Printf("Connecting to %s", u.String())

		dialer := *websocket.DefaultDialer
		dialer.HandshakeTimeout = 10 * time.Second
		c, _, err := dialer.DialContext(ctx, u.String(), nil)
		if err != nil {
			log.Printf("Connection failed: %v", err)
			retryCount++
			if retryCount >= options.MaxRetries {
				log.Printf("Max retries (%d) reached. Giving up.", options.MaxRetries)
				return ErrMaxRetries
			}
			continue
		}

		log.Println("Connected! Accepting range readings.")
		retryCount = 0

		// Handle the connection until it breaks or we're cancelled
		connectionBroken := handleConnection(ctx, c, options, funcToCall)
		c.Close()

		if !connectionBroken {
			return nil
		}
		log.Println("Connection lost, will retry...")
		retryCount = 1
	}
}

func handleConnection(
	ctx context.Context,
	c *websocket.Conn,
	options Options,
	funcToCall func(reading *types.Reading),
) bool {
	done := make(chan struct{})

	// Set read deadline to detect dead connections
	c.SetReadDeadline(time.Now().Add(options.ReadTimeout))
	// A quiet sensor still answers pings
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(options.ReadTimeout))
	})

	go func() {
		defer close(done)
		for {
			messageType, message, err := c.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("WebSocket error: %v", err)
				} else {
					log.Printf("Connection closed: %v", err)
				}
				return
			}

			c.SetReadDeadline(time.Now().Add(options.ReadTimeout))

			if messageType != websocket.TextMessage {
				log.Printf("Received unexpected message type: %d", messageType)
				continue
			}
			if reading := types.ReadingFromJsonBytes(message); reading != nil {
				funcToCall(reading)
			} else {
				log.Printf("Failed to parse range reading: %s", string(message))
			}
		}
	}()

	// Periodic pings keep proxies from dropping the connection
	ticker := time.NewTicker(options.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second)); err != nil {
				log.Printf("Failed to send ping: %v", err)
			}
		case <-done:
			return true
		case <-ctx.Done():
			log.Println("Closing connection...")
			err := c.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			if err != nil {
				log.Println("Error sending close message:", err)
			}

			// Wait for close confirmation or timeout
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return false
		}
	}
}
