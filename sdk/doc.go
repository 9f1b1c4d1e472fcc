// Package sdk provides a Go client library for the Artifacts MMO HTTP API.
// It wraps every game action and reference-data catalog behind typed
// accessors, and handles the two hard parts of talking to the game server:
// the per-character cooldown contract and the cost of re-fetching thousands
// of paginated catalog records on every run.
//
// # Features
//
// The SDK provides:
//   - A cooldown gate that serializes mutating actions against the
//     server-reported cooldown window
//   - Automatic retries with exponential backoff for transient failures,
//     never for game-rule errors
//   - A versioned local cache (SQLite) for items, maps, monsters, resources,
//     tasks, task rewards and achievements, rebuilt only when the server
//     reports a new data version
//   - Typed errors for every game status code with errors.Is support
//   - Context support for cancellation and timeouts
//   - Observer hooks and an optional Prometheus collector
//
// # Basic Usage
//
// Create a client and act with a character:
//
//	package main
//
//	import (
//	    "context"
//	    "log"
//
//	    "github.com/birbparty/artifacts-go/sdk"
//	)
//
//	func main() {
//	    config := sdk.DefaultConfig().
//	        WithToken("my-api-token").
//	        WithCharacter("Birbalot")
//
//	    client, err := sdk.NewClient(config)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer client.Close()
//
//	    ctx := context.Background()
//	    char := client.Character()
//
//	    if err := char.Move(ctx, 2, 0); err != nil && !sdk.IsAlreadyAtDestination(err) {
//	        log.Fatal(err)
//	    }
//	    if err := char.Gather(ctx); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// Every mutating action waits for the previous action's cooldown to clear,
// performs the call, then refreshes the character snapshot from the server.
// The refreshed snapshot is authoritative; callers should read state through
// CharacterSession.State rather than assume anything about the action's own
// response body.
//
// # Reference Data
//
// Catalog queries go through per-category repositories backed by the
// versioned cache:
//
//	copperOre, err := client.Resources().Get(ctx, "copper_rocks")
//
//	lowLevelMonsters, err := client.Monsters().Filter(ctx,
//	    sdk.MonsterMaxLevel(10),
//	    sdk.MonsterDrops("feather"),
//	)
//
// The first query per category either hydrates from the local SQLite store
// (when the server data version is unchanged) or performs one full paginated
// sweep and persists it.
//
// # Error Handling
//
//	err := char.Craft(ctx, "copper_dagger", 1)
//	switch {
//	case errors.Is(err, sdk.ErrTooLowLevel):
//	    // train the skill first
//	case errors.Is(err, sdk.ErrInsufficientQuantity):
//	    // gather more material
//	case sdk.IsRetryable(err):
//	    // transient; safe to call again
//	}
//
// Game-rule errors carry the original status code, endpoint and request body
// via *sdk.APIError for diagnosis.
//
// # Concurrency
//
// A Client is safe for concurrent use. Mutating actions from multiple
// goroutines are strictly serialized by the cooldown gate; reference-data
// reads bypass the gate and may interleave freely.
package sdk
