// Package delivery contains the transports that expose the console.
package delivery

import "context"

// Delivery is a long-running transport started by the binary.
type Delivery interface {
	Serve(ctx context.Context) error
}
