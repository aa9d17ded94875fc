package invoice

import "context"

// Repository hands out invoice numbers from a server-side sequence. Numbers
// are consumed per attempt; an aborted checkout leaves a gap, which is fine
// for display purposes.
type Repository interface {
	NextNumber(ctx context.Context) (string, error)
}
