package publisher

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/NotCoffee418/sf11_rangefinder/pkg/rangefinder"
	"github.com/NotCoffee418/sf11_rangefinder/pkg/types"
	"github.com/gorilla/websocket"
)

// ReadingSource is what the routes need from the serial reader.
type ReadingSource interface {
	GetLatestReading() *types.Reading
	GetStats() rangefinder.Stats
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // readings are public on the local network
	},
}

// Routes registers /, /latest, /stats and /ws on a new mux.
func Routes(source ReadingSource, hub *Hub) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		writeJson(w, http.StatusOK, map[string]string{
			"message": "SF11 Rangefinder API",
			"status":  "running",
		})
	})

	mux.HandleFunc("/latest", func(w http.ResponseWriter, r *http.Request) {
		reading := source.GetLatestReading()
		if reading == nil {
			writeJson(w, http.StatusNotFound, map[string]string{
				"error": "No readings available yet",
			})
			return
		}
		writeJson(w, http.StatusOK, reading)
	})

	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJson(w, http.StatusOK, source.GetStats())
	})

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade error: %v", err)
			return
		}

		hub.AddClient(conn)

		// Send current reading immediately if available
		if reading := source.GetLatestReading(); reading != nil {
			if err := hub.write(conn, reading.ToJsonBytes()); err != nil {
				hub.RemoveClient(conn)
				return
			}
		}

		// Keep connection alive
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				hub.RemoveClient(conn)
				break
			}
		}
	})

	return mux
}

func writeJson(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}
