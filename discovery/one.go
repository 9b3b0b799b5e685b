package discovery

import (
	"context"
	"time"
)

// One browses until either a matching device is found or timeout
// elapses, returning DeviceNotFoundError in the latter case.
func One(ctx context.Context, timeout time.Duration) (DiscoveredDevice, error) {
	browser := NewBrowser()
	events := make(chan Event, 8)
	if err := browser.Subscribe("one", events); err != nil {
		return DiscoveredDevice{}, err
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- browser.Run(runCtx) }()

	for {
		select {
		case e := <-events:
			if e.Kind == EventAdded {
				cancel()
				<-runErr
				return e.Record, nil
			}
		case err := <-runErr:
			if err != nil {
				return DiscoveredDevice{}, err
			}
			return DiscoveredDevice{}, DeviceNotFoundError{}
		}
	}
}
