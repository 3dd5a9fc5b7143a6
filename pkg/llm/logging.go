package llm

import (
	"context"
	"time"
)

// Logger is the subset of the service logger the decorator writes to.
type Logger interface {
	Info(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
}

type loggedProvider struct {
	next LLMProvider
	log  Logger
}

// WithLogging records every model call: model, message count, latency and
// outcome. Prompts and replies are not logged, only their sizes.
func WithLogging(next LLMProvider, log Logger) LLMProvider {
	return &loggedProvider{next: next, log: log}
}

func (p *loggedProvider) record(call string, history []Message, opts []Option, started time.Time, chars int, err error) {
	details := map[string]interface{}{
		"call":        call,
		"model":       ApplyOptions(opts...).Model,
		"messages":    len(history),
		"duration_ms": time.Since(started).Milliseconds(),
		"reply_chars": chars,
	}
	if err != nil {
		details["error"] = err.Error()
		p.log.Error("LLM", "Model call failed", details)
		return
	}
	p.log.Info("LLM", "Model call finished", details)
}

func (p *loggedProvider) Chat(ctx context.Context, history []Message, opts ...Option) (string, error) {
	started := time.Now()
	out, err := p.next.Chat(ctx, history, opts...)
	p.record("chat", history, opts, started, len(out), err)
	return out, err
}

func (p *loggedProvider) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	started := time.Now()
	out, err := p.next.Generate(ctx, prompt, opts...)
	p.record("generate", []Message{{Role: RoleUser, Content: prompt}}, opts, started, len(out), err)
	return out, err
}

// Stream passes chunks through untouched and logs once the stream ends.
func (p *loggedProvider) Stream(ctx context.Context, history []Message, opts ...Option) (<-chan string, <-chan error) {
	started := time.Now()
	chunks, errs := p.next.Stream(ctx, history, opts...)
	return RunStream(ctx, func(ctx context.Context, emit Emit) error {
		chars := 0
		for c := range chunks {
			chars += len(c)
			if err := emit(c); err != nil {
				// drain so the inner stream can exit
				for range chunks {
				}
				<-errs
				p.record("stream", history, opts, started, chars, err)
				return err
			}
		}
		err := <-errs
		p.record("stream", history, opts, started, chars, err)
		return err
	})
}
