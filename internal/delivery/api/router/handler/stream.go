package handler

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// offerLatest hands v to the reader, replacing a value it has not read yet.
func offerLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}

		select {
		case <-ch:
		default:
		}
	}
}

// writeEvent writes one server-sent event.
func writeEvent(w io.Writer, event string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s event", event)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, raw); err != nil {
		return errors.Wrapf(err, "failed to write %s event", event)
	}

	return nil
}
