package notify

import (
	"context"
	"errors"
)

var ErrClosed = errors.New("notify: bus closed")

// Bus carries "collection changed" signals from writers to live feeds. A
// signal carries no payload; receivers re-read whatever they watch.
type Bus interface {
	Publish(ctx context.Context, collection string) error
	// Subscribe returns a channel that receives at least one signal after any
	// number of changes published since the last receive. cancel releases the
	// subscription and closes the channel.
	Subscribe(ctx context.Context, collection string) (<-chan struct{}, func(), error)
	Close() error
}
