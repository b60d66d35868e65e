// Package delivery defines the contract every long-running surface of the
// process implements.
package delivery

import "context"

// Delivery is a serving surface (HTTP API, scheduler worker) started by main
// and stopped through fx lifecycle hooks.
type Delivery interface {
	// Serve blocks until the surface stops or fails.
	Serve(ctx context.Context) error
}
