package rangeclient

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NotCoffee418/sf11_rangefinder/pkg/types"
)

func testOptions(host string) Options {
	opts := DefaultOptions(host)
	opts.MaxRetries = 3
	opts.BaseRetryDelay = time.Millisecond
	opts.MaxRetryDelay = 5 * time.Millisecond
	opts.ReadTimeout = 2 * time.Second
	opts.PingInterval = 50 * time.Millisecond
	return opts
}

func reading(rangeM float64) []byte {
	r := types.Reading{FrameID: "sf11", Range: rangeM, MaxRange: 120}
	return r.ToJsonBytes()
}

// newPublisher serves /ws and runs session for every connection.
func newPublisher(t *testing.T, session func(conn *websocket.Conn)) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var connections atomic.Int32
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		connections.Add(1)
		session(conn)
	}))
	t.Cleanup(srv.Close)
	return srv, &connections
}

func hostOf(srv *httptest.Server) string {
	return strings.TrimPrefix(srv.URL, "http://")
}

func TestStartListener_DeliversReadings(t *testing.T) {
	srv, _ := newPublisher(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, reading(1.5))
		conn.WriteMessage(websocket.TextMessage, []byte("not a reading"))
		conn.WriteMessage(websocket.BinaryMessage, []byte{1, 2, 3})
		conn.WriteMessage(websocket.TextMessage, reading(2.5))
		// wait for the client to close
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan float64, 10)
	errc := make(chan error, 1)
	go func() {
		errc <- StartListener(ctx, testOptions(hostOf(srv)), func(r *types.Reading) {
			got <- r.Range
		})
	}()

	for _, want := range []float64{1.5, 2.5} {
		select {
		case r := <-got:
			assert.Equal(t, want, r)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %v", want)
		}
	}

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("listener did not stop")
	}
}

func TestStartListener_Reconnects(t *testing.T) {
	var sent atomic.Int32
	srv, connections := newPublisher(t, func(conn *websocket.Conn) {
		// drop the connection after each reading
		conn.WriteMessage(websocket.TextMessage, reading(float64(sent.Add(1))))
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan float64, 10)
	go StartListener(ctx, testOptions(hostOf(srv)), func(r *types.Reading) {
		got <- r.Range
	})

	for i := 0; i < 3; i++ {
		select {
		case <-got:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for reading %d", i+1)
		}
	}
	assert.GreaterOrEqual(t, connections.Load(), int32(3))
}

func TestStartListener_PongsKeepQuietConnectionAlive(t *testing.T) {
	srv, connections := newPublisher(t, func(conn *websocket.Conn) {
		// never send a reading; reading answers the client's pings
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := testOptions(hostOf(srv))
	opts.ReadTimeout = 150 * time.Millisecond
	opts.PingInterval = 30 * time.Millisecond

	errc := make(chan error, 1)
	go func() {
		errc <- StartListener(ctx, opts, func(*types.Reading) {
			t.Error("unexpected reading")
		})
	}()

	// several read timeouts pass without a reading
	time.Sleep(5 * opts.ReadTimeout)
	assert.Equal(t, int32(1), connections.Load())

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("listener did not stop")
	}
}

func TestStartListener_GivesUp(t *testing.T) {
	// reserve a port nobody listens on
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host := l.Addr().String()
	require.NoError(t, l.Close())

	err = StartListener(context.Background(), testOptions(host), func(*types.Reading) {
		t.Error("unexpected reading")
	})
	assert.ErrorIs(t, err, ErrMaxRetries)
}

func TestStartListener_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, StartListener(ctx, testOptions("127.0.0.1:1"), func(*types.Reading) {}))
}

func TestOptionsURL(t *testing.T) {
	opts := DefaultOptions("pi.local:9040")
	u := opts.url()
	assert.Equal(t, "ws://pi.local:9040/ws", u.String())

	opts.TLSEnabled = true
	u = opts.url()
	assert.Equal(t, "wss://pi.local:9040/ws", u.String())
}
