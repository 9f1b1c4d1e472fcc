package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/birbparty/artifacts-go/sdk"
)

// waitLogger prints cooldown waits so the bot's pacing is visible.
type waitLogger struct {
	sdk.NoopObserver
}

func (waitLogger) OnCooldownWait(remaining time.Duration) {
	fmt.Printf("  (cooldown, waiting %v)\n", remaining.Round(time.Millisecond))
}

func main() {
	registry := prometheus.NewRegistry()

	config := sdk.DefaultConfig().
		WithToken(os.Getenv("ARTIFACTS_TOKEN")).
		WithCharacter(os.Getenv("ARTIFACTS_CHARACTER")).
		WithTimeout(15 * time.Second).
		WithRetries(5).
		WithObserver(sdk.NewPrometheusObserver(registry))

	client, err := sdk.NewClient(config)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	// Expose client metrics while the bot runs.
	go func() {
		http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		log.Println(http.ListenAndServe(":2112", nil))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	char := client.Character()
	if err := char.Refresh(ctx); err != nil {
		log.Fatalf("Failed to load character: %v", err)
	}

	// Plan: find every item we can craft at our current mining level, then
	// run a gather-and-craft loop for the first one.
	state := char.State()
	craftable, err := client.Items().Filter(ctx,
		sdk.ItemCraftSkill("mining"),
		sdk.ItemMaxLevel(state.MiningLevel),
	)
	if err != nil {
		log.Fatalf("Failed to query items: %v", err)
	}
	if len(craftable) == 0 {
		log.Fatal("Nothing craftable at this mining level")
	}
	recipe := craftable[0]
	fmt.Printf("Crafting plan: %s (needs %d materials)\n", recipe.Name, len(recipe.Craft.Items))

	material := recipe.Craft.Items[0]
	sources, err := client.Resources().Filter(ctx, sdk.ResourceDrops(material.Code))
	if err != nil || len(sources) == 0 {
		log.Fatalf("No resource drops %s", material.Code)
	}
	spots, err := client.Maps().Filter(ctx,
		sdk.MapContentType("resource"),
		sdk.MapContentCode(sources[0].Code),
	)
	if err != nil || len(spots) == 0 {
		log.Fatalf("Resource %s is not on the map", sources[0].Code)
	}

	if err := char.MoveTo(ctx, spots[0].Position()); err != nil && !sdk.IsAlreadyAtDestination(err) {
		log.Fatalf("Failed to move: %v", err)
	}

	for char.State().HasItem(material.Code) < material.Quantity {
		if err := char.Gather(ctx); err != nil {
			switch {
			case errors.Is(err, sdk.ErrInventoryFull):
				log.Fatal("Inventory full; deposit at a bank first")
			case sdk.IsRetryable(err):
				// The pipeline already retried; a retryable error here
				// means the budget was exhausted.
				log.Fatalf("Server unreachable: %v", err)
			default:
				log.Fatalf("Failed to gather: %v", err)
			}
		}
		fmt.Printf("  %d/%d %s\n", char.State().HasItem(material.Code), material.Quantity, material.Code)
	}

	// Craft at the nearest workshop for the recipe's skill.
	workshops, err := client.Maps().Filter(ctx,
		sdk.MapContentType("workshop"),
		sdk.MapContentCode(recipe.Craft.Skill),
	)
	if err != nil || len(workshops) == 0 {
		log.Fatalf("No %s workshop on the map", recipe.Craft.Skill)
	}
	if err := char.MoveTo(ctx, workshops[0].Position()); err != nil && !sdk.IsAlreadyAtDestination(err) {
		log.Fatalf("Failed to move: %v", err)
	}
	if err := char.Craft(ctx, recipe.Code, 1); err != nil {
		log.Fatalf("Failed to craft: %v", err)
	}
	fmt.Printf("✓ Crafted %s\n", recipe.Name)
}
