package app

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/gnss_telemetry/internal/config"
	"github.com/relabs-tech/gnss_telemetry/internal/gnss"
	"github.com/relabs-tech/gnss_telemetry/internal/ingest"
	"github.com/relabs-tech/gnss_telemetry/internal/store"
)

// RunReceiver subscribes to the GNSS topic and runs the
// validate-then-persist loop until SIGINT/SIGTERM. Deliveries go
// through a bounded queue so a slow insert can never make the MQTT
// callback overwrite an unprocessed message.
func RunReceiver() error {
	cfg := config.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- 1) Open the sentence store ----
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Printf("receiver: opened database %s", cfg.DBPath)

	pipeline := ingest.New(gnss.Validator{Strict: cfg.StrictValidation}, db)

	// ---- 2) Connect to MQTT broker ----
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDReceiver)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to MQTT broker %s: %w", cfg.MQTTBroker, token.Error())
	}
	defer client.Disconnect(250)
	log.Printf("receiver: connected to MQTT broker at %s", cfg.MQTTBroker)

	// ---- 3) Subscribe; the callback only enqueues ----
	queue := make(chan string, cfg.ReceiveQueueSize)

	token := client.Subscribe(cfg.TopicGNSS, cfg.QoS, func(_ mqtt.Client, msg mqtt.Message) {
		if !ingest.Offer(queue, string(msg.Payload())) {
			log.Println("receiver: queue full, dropped oldest pending message")
		}
	})
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("subscribe to %s: %w", cfg.TopicGNSS, token.Error())
	}
	log.Printf("receiver: subscribed to %s", cfg.TopicGNSS)

	// ---- 4) Ingest loop until shutdown ----
	runReceiveLoop(ctx, queue, pipeline)
	log.Println("receiver: shutting down")

	if n, err := db.Count(); err == nil {
		log.Printf("receiver: %d sentences stored in total", n)
	}
	return nil
}

// runReceiveLoop drains one message per iteration until ctx is
// cancelled. A message picked up before cancellation is fully
// processed (stored or dropped) before the loop exits.
func runReceiveLoop(ctx context.Context, queue <-chan string, pipeline *ingest.Pipeline) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw := <-queue:
			pipeline.Ingest(raw)
		}
	}
}
