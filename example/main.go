// Command example runs a scripted session and prints each published column
// snapshot, which is roughly what a UI layer would render. By default it uses
// the in-memory demo controller; set YELLOW_SERVER_URL (plus YELLOW_USER and
// YELLOW_PASS) to run the same script against a real notes server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	yellow "github.com/yellow-notes/yellow"
	"github.com/yellow-notes/yellow/pkg/logger"
	"github.com/yellow-notes/yellow/pkg/workspace"
)

func main() {
	log, err := logger.New().FromBuffer(os.Stderr).WithLevel(zerolog.DebugLevel).Make()
	if err != nil {
		panic(err)
	}

	ctx := context.Background()

	var ctrl yellow.Controller
	if os.Getenv("YELLOW_SERVER_URL") != "" {
		nc := yellow.NewNetworkController(yellow.ConfigFromEnv(), log)
		nc.Login(ctx, yellow.GetEnvOrDefault("YELLOW_USER", "root"), yellow.GetEnvOrDefault("YELLOW_PASS", "root"))
		ctrl = nc
	} else {
		ctrl = yellow.NewDemoController(log)
	}

	columns, cancel := ctrl.Spaces().Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for snapshot := range columns {
			printSnapshot(snapshot)
		}
	}()

	// Streams do not replay, so ask for the current state first.
	ctrl.UpdateSubscribers()

	ctrl.AddSpace("Reading list")
	ctrl.Search(ctx, "anything interesting", 0)
	if err := ctrl.SaveNote(ctx, "# Saved\n\nWritten from the example."); err != nil {
		log.Error("save note", "error", err)
	}
	// Move the first note of the front column to the top of the next one.
	ctrl.ReorderNote(0, 0, 1, 0)

	cancel()
	<-done
}

func printSnapshot(cols []*workspace.Column) {
	fmt.Println("----")
	for i, col := range cols {
		fmt.Printf("[%d] %s\n", i, col.Title)
		for _, id := range col.Order {
			n := col.Notes[id]
			fmt.Printf("    %s (%s): %s\n", n.ID, n.Author.Name, n.Plain())
		}
	}
}
