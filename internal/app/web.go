package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/gnss_telemetry/internal/config"
	"github.com/relabs-tech/gnss_telemetry/internal/store"
)

// RunWeb serves a small live view of the GNSS feed: the latest
// sentence as JSON, the most recent stored records, and a websocket
// that pushes every sentence as it arrives.
func RunWeb() error {
	cfg := config.Get()

	var (
		mu           sync.RWMutex
		lastSentence string
	)

	upgrader := websocket.Upgrader{}
	var (
		clientsMu sync.Mutex
		clients   = map[*websocket.Conn]bool{}
	)

	// 1) Open the receiver's database for /api/recent.
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	// 2) Connect to MQTT broker and track the latest sentence.
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to MQTT broker %s: %w", cfg.MQTTBroker, token.Error())
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicGNSS, cfg.QoS, func(_ mqtt.Client, msg mqtt.Message) {
		sentence := string(msg.Payload())

		mu.Lock()
		lastSentence = sentence
		mu.Unlock()

		// Push to websocket clients; drop the ones that went away.
		clientsMu.Lock()
		for conn := range clients {
			if err := conn.WriteMessage(websocket.TextMessage, msg.Payload()); err != nil {
				conn.Close()
				delete(clients, conn)
			}
		}
		clientsMu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("subscribe to %s: %w", cfg.TopicGNSS, token.Error())
	}
	log.Printf("web: subscribed to %s", cfg.TopicGNSS)

	// 3) JSON API: latest sentence off the wire.
	http.HandleFunc("/api/latest", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if lastSentence == "" {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"sentence": lastSentence}); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// 4) JSON API: recent stored records.
	http.HandleFunc("/api/recent", func(w http.ResponseWriter, r *http.Request) {
		records, err := db.Recent(20)
		if err != nil {
			log.Printf("web: recent query error: %v", err)
			http.Error(w, "query failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// 5) Websocket live feed.
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: websocket upgrade error: %v", err)
			return
		}
		clientsMu.Lock()
		clients[conn] = true
		clientsMu.Unlock()
	})

	// 6) Static files from ./web as the root.
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web: server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
