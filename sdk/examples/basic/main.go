package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/birbparty/artifacts-go/sdk"
)

func main() {
	// Token and character come from ARTIFACTS_TOKEN / ARTIFACTS_CHARACTER.
	config, err := sdk.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, err := sdk.NewClient(config)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	char := client.Character()

	// Example 1: Check the server and the character
	fmt.Println("--- Example 1: Status ---")
	status, err := client.ServerStatus(ctx)
	if err != nil {
		log.Fatalf("Failed to reach server: %v", err)
	}
	fmt.Printf("✓ Server %s is %s, %d characters online\n",
		status.Version, status.Status, status.CharactersOnline)

	if err := char.Refresh(ctx); err != nil {
		log.Fatalf("Failed to load character: %v", err)
	}
	state := char.State()
	fmt.Printf("✓ %s is level %d at %s with %d gold\n",
		state.Name, state.Level, state.Position(), state.Gold)

	// Example 2: Find somewhere to mine
	fmt.Println("\n--- Example 2: Find a copper spot ---")
	spots, err := client.Maps().Filter(ctx,
		sdk.MapContentType("resource"),
		sdk.MapContentCode("copper"),
	)
	if err != nil {
		log.Fatalf("Failed to query map: %v", err)
	}
	if len(spots) == 0 {
		log.Fatal("No copper on the map")
	}

	// Pick the closest spot by walking distance.
	target := spots[0]
	for _, spot := range spots[1:] {
		if state.Position().Dist(spot.Position()) < state.Position().Dist(target.Position()) {
			target = spot
		}
	}
	fmt.Printf("✓ Closest copper is at %s\n", target.Position())

	// Example 3: Walk there and gather
	fmt.Println("\n--- Example 3: Gather ---")
	err = char.MoveTo(ctx, target.Position())
	if err != nil && !sdk.IsAlreadyAtDestination(err) {
		log.Fatalf("Failed to move: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := char.Gather(ctx); err != nil {
			if errors.Is(err, sdk.ErrInventoryFull) {
				fmt.Println("Inventory is full, stopping")
				break
			}
			log.Fatalf("Failed to gather: %v", err)
		}
		fmt.Printf("✓ Gathered, carrying %d copper ore\n", char.State().HasItem("copper_ore"))
	}
}
