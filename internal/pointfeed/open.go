package pointfeed

import (
	"context"
	"fmt"
)

// Source kinds accepted by Open.
const (
	KindWave      = "wave"
	KindWebsocket = "ws"
	KindNone      = "none"
)

// Options selects and configures a source.
type Options struct {
	Kind    string
	URL     string
	Modulus float32
}

// Open creates the source named by opts.Kind. Websocket sources must be
// closed by the caller; they implement io.Closer.
func Open(ctx context.Context, opts Options) (Source, error) {
	switch opts.Kind {
	case KindWave, "":
		return NewWave(opts.Modulus), nil
	case KindNone:
		return None{}, nil
	case KindWebsocket:
		if opts.URL == "" {
			return nil, fmt.Errorf("point source %q needs a url", opts.Kind)
		}
		return Dial(ctx, opts.URL)
	default:
		return nil, fmt.Errorf("unknown point source %q", opts.Kind)
	}
}
