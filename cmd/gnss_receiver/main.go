package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/gnss_telemetry/internal/app"
	"github.com/relabs-tech/gnss_telemetry/internal/config"
)

func main() {
	configPath := flag.String("config", "gnss_config.txt", "path to the configuration file")
	flag.Parse()

	log.Println("starting GNSS receiver (MQTT → SQLite)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunReceiver(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
