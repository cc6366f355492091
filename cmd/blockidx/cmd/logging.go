package cmd

import (
	"log"
	"os"

	"github.com/rickcollette/blockidx/internal/events"
)

// newEventLogger subscribes a stdlib *log.Logger to bus and returns a cancel
// func the caller must invoke once it is done with the tree. The core engine
// never calls log itself (§7); this is the only place engine lifecycle
// events become printed lines.
func newEventLogger(bus *events.Bus) func() {
	logger := log.New(os.Stderr, "blockidx: ", log.LstdFlags)
	ch, cancel := bus.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range ch {
			logger.Printf("%s path=%q key=%d node=%d parent=%d count=%d",
				ev.Kind, ev.Path, ev.Key, ev.NodeID, ev.ParentID, ev.Count)
		}
	}()
	return func() {
		cancel()
		<-done
	}
}
