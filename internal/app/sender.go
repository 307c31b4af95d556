package app

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/gnss_telemetry/internal/config"
	"github.com/relabs-tech/gnss_telemetry/internal/gnss"
)

// RunSender samples the position source, encodes each sample as a
// GPRMC sentence, and publishes it to the GNSS topic. It performs the
// configured number of ticks and exits, or earlier on SIGINT/SIGTERM.
func RunSender() error {
	cfg := config.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- 1) Pick the position source ----
	var src gnss.Source
	var err error
	switch cfg.GNSSSource {
	case "serial":
		src, err = gnss.NewSerialSource(cfg.GPSSerialPort, cfg.GPSBaudRate)
		if err != nil {
			return err
		}
		log.Printf("sender: reading GNSS fixes from %s at %d baud", cfg.GPSSerialPort, cfg.GPSBaudRate)
	default:
		src = gnss.NewRandomSource()
		log.Println("sender: using synthetic GNSS source")
	}

	// ---- 2) Connect to MQTT broker ----
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDSender)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to MQTT broker %s: %w", cfg.MQTTBroker, token.Error())
	}
	defer client.Disconnect(250)
	log.Printf("sender: connected to MQTT broker at %s", cfg.MQTTBroker)

	// ---- 3) Publish loop ----
	interval := time.Duration(cfg.PublishIntervalMs) * time.Millisecond

	for i := 0; i < cfg.PublishCount; i++ {
		sample, err := src.Next()
		if err != nil {
			log.Printf("sender: sample error: %v", err)
			continue
		}

		sentence := gnss.Encode(sample)

		token := client.Publish(cfg.TopicGNSS, cfg.QoS, false, []byte(sentence))
		token.Wait()
		if token.Error() != nil {
			// fire-and-forget: log and move on to the next tick
			log.Printf("sender: publish error: %v", token.Error())
		} else if pt, ok := token.(*mqtt.PublishToken); ok {
			log.Printf("sender: published %s (mid %d)", sentence, pt.MessageID())
		} else {
			log.Printf("sender: published %s", sentence)
		}

		// Sleep between ticks, but wake immediately on shutdown.
		select {
		case <-ctx.Done():
			log.Println("sender: shutting down")
			return nil
		case <-time.After(interval):
		}
	}

	return nil
}
