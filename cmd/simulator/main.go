package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/s-nagoti/VT-Memegen/simulator"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "API server base URL")
	numUsers := flag.Int("users", 50, "number of simulated users")
	duration := flag.Duration("duration", 2*time.Minute, "simulation duration")
	flag.Parse()

	sim := simulator.NewSimulator(simulator.SimConfig{
		NumUsers:         *numUsers,
		SimulationTime:   *duration,
		PostFrequency:    0.5,
		CommentFrequency: 2.0,
		VoteFrequency:    4.0,
		ViewFrequency:    6.0,
		DisconnectRate:   0.02,
		ReconnectRate:    0.1,
		ZipfS:            1.5,
		BaseURL:          *baseURL,
	})

	if err := sim.Run(context.Background()); err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}
}
