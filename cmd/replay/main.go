// Command replay publishes a JSON-lines file of event envelopes to the
// conference events topic, e.g. to rebuild a read model from an export.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"ms-conference/internal/config"
	"ms-conference/internal/events"
	"ms-conference/internal/kafka"
	"ms-conference/internal/logger"
)

func main() {
	file := flag.String("file", "", "path to a JSON-lines file of event envelopes")
	batch := flag.Int("batch", 100, "events per write")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.NewWriterLogger(os.Stdout)

	if *file == "" {
		log.Fatal("CONFIG", "-file is required")
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal("CONFIG", fmt.Sprintf("Failed to open %s: %v", *file, err))
	}
	defer f.Close()

	publisher := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer publisher.Close()

	ctx := context.Background()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var pending []events.Event
	published, line := 0, 0
	flush := func() {
		if len(pending) == 0 {
			return
		}
		if err := publisher.Publish(ctx, pending...); err != nil {
			log.Fatal("KAFKA", fmt.Sprintf("Publish failed after %d events: %v", published, err))
		}
		published += len(pending)
		pending = pending[:0]
	}

	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		evt, err := events.Decode(scanner.Bytes())
		if err != nil {
			log.Fatal("REPLAY", fmt.Sprintf("Line %d: %v", line, err))
		}
		pending = append(pending, evt)
		if len(pending) >= *batch {
			flush()
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatal("REPLAY", fmt.Sprintf("Reading %s: %v", *file, err))
	}
	flush()

	log.LogKafka("REPLAY", cfg.Kafka.Topic, fmt.Sprintf("published %d events", published))
}
