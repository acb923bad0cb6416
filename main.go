package main

import (
	"fmt"
	"os"

	"auction-engine/internal/config"
	"auction-engine/internal/engine"
	"auction-engine/internal/events"
	"auction-engine/internal/lifecycle"
	"auction-engine/internal/server"
	"auction-engine/internal/settlement"
	"auction-engine/internal/store"
	"auction-engine/utils"
)

func main() {

	cfg := config.Load()

	st := store.NewMemoryStore()
	bus := events.NewBus()
	defer bus.Close()

	scheduler := lifecycle.NewScheduler(st, bus, cfg)
	defer scheduler.Stop()

	eng := engine.NewEngine(st, bus, cfg, scheduler)

	settler := settlement.NewService(st, bus, cfg, settlement.DevGateway{})
	scheduler.SetSettler(settler)

	go logEvents(bus)

	router := server.SetupRouter(eng, scheduler)

	fmt.Printf("Starting auction engine on %s...\n", cfg.Server.Port)
	if err := router.Run(cfg.Server.Port); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// logEvents drains the bus the way the external broadcast layer would,
// logging every published engine event.
func logEvents(bus *events.Bus) {
	for ev := range bus.Subscribe() {
		utils.Debug("engine event", map[string]any{
			"event_type": string(ev.EventType()),
		})
	}
}
