// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	nmea "github.com/adrianmo/go-nmea"
	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/gnss_telemetry/internal/config"
)

// RunConsole subscribes to the GNSS topic and pretty-prints each fix.
// Sentences that fail to parse are shown raw, so the console is also
// useful for watching malformed traffic.
func RunConsole() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to MQTT broker %s: %w", cfg.MQTTBroker, token.Error())
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicGNSS, cfg.QoS, func(_ mqtt.Client, msg mqtt.Message) {
		raw := string(msg.Payload())

		parsed, err := nmea.Parse(raw)
		if err != nil {
			fmt.Printf("[RAW ]  %s\n", raw)
			return
		}
		rmc, ok := parsed.(nmea.RMC)
		if !ok {
			fmt.Printf("[RAW ]  %s\n", raw)
			return
		}

		fmt.Printf(
			"[GNSS]  time=%s date=%s lat=%.6f lon=%.6f speed=%.1fkn course=%.1f° validity=%s\n",
			rmc.Time, rmc.Date, rmc.Latitude, rmc.Longitude, rmc.Speed, rmc.Course, rmc.Validity,
		)
	})
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("subscribe to %s: %w", cfg.TopicGNSS, token.Error())
	}
	log.Printf("console: subscribed to %s", cfg.TopicGNSS)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
