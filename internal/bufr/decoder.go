package bufr

import (
	"context"
	"fmt"
	"io"
)

// Decoder produces decoded messages from one input document. Implementations
// isolate failures per message: a message that cannot be decoded is reported
// in Batch.Errors and the remaining messages still decode. A non-nil error
// return means the input as a whole was unreadable.
type Decoder interface {
	Decode(ctx context.Context, r io.Reader) (*Batch, error)
}

// Batch is the result of decoding one input document.
type Batch struct {
	Messages []Message
	Errors   []error // per-message decode failures, *DecodeError
}

// DecodeError reports a single message that could not be decoded. The batch
// continues with the remaining messages.
type DecodeError struct {
	MessageIndex int
	Err          error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode message %d: %v", e.MessageIndex, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
