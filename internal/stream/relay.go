// Package stream relays incremental provider output to a client.
package stream

import (
	"context"
	"iter"

	"github.com/kiranshivaraju/mediagate/internal/metrics"
)

// ErrorPrefix starts the final increment sent when the provider fails mid-stream.
const ErrorPrefix = "[ERROR] "

// Sink receives increments. Close is called exactly once, by Relay.
type Sink interface {
	Send(data string) error
	Close() error
}

// Relay forwards each non-empty increment of seq to sink in order and returns how
// many were forwarded. An upstream failure is reported to the client as one final
// ErrorPrefix increment and is not returned. Relay stops early when ctx is done
// or the sink rejects a write, and always closes sink before returning.
func Relay(ctx context.Context, seq iter.Seq2[string, error], sink Sink) (n int, err error) {
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for chunk, upstreamErr := range seq {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return n, ctxErr
		}

		if upstreamErr != nil {
			metrics.StreamErrors.Inc()
			if serr := sink.Send(ErrorPrefix + upstreamErr.Error()); serr != nil {
				return n, serr
			}
			return n, nil
		}

		if chunk == "" {
			continue
		}
		if serr := sink.Send(chunk); serr != nil {
			return n, serr
		}
		n++
		metrics.StreamChunks.Inc()
	}

	return n, ctx.Err()
}
