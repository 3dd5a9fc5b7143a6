package llm

import "context"

// Emit is handed to StreamFunc implementations; it blocks until the chunk is
// taken or ctx is done.
type Emit func(chunk string) error

// StreamFunc produces chunks through emit and returns when generation ends.
type StreamFunc func(ctx context.Context, emit Emit) error

// RunStream adapts a callback-style generator to the channel contract of
// LLMProvider.Stream.
func RunStream(ctx context.Context, fn StreamFunc) (<-chan string, <-chan error) {
	chunks := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer close(errs)
		emit := func(chunk string) error {
			if chunk == "" {
				return nil
			}
			select {
			case chunks <- chunk:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		err := fn(ctx, emit)
		close(chunks)
		if err == nil && ctx.Err() != nil {
			err = ctx.Err()
		}
		if err != nil {
			errs <- err
		}
	}()

	return chunks, errs
}

// Collect drains a stream into one string.
func Collect(chunks <-chan string, errs <-chan error) (string, error) {
	var out []byte
	for c := range chunks {
		out = append(out, c...)
	}
	if err := <-errs; err != nil {
		return string(out), err
	}
	return string(out), nil
}
