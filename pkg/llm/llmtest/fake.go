// Package llmtest provides a scripted provider for tests.
package llmtest

import (
	"context"
	"sync"

	"mindforge-be/pkg/llm"
)

// Call records one request made to the fake.
type Call struct {
	History []llm.Message
	Options *llm.Options
}

// Provider replays canned output. Stream emits Chunks one by one and then
// StreamErr, if set. Chat and Generate return Reply and Err.
type Provider struct {
	Chunks    []string
	StreamErr error
	Reply     string
	Err       error

	// Block makes Stream wait for ctx cancellation after emitting Chunks.
	Block bool

	mu    sync.Mutex
	calls []Call
}

var _ llm.LLMProvider = (*Provider)(nil)

func (p *Provider) record(history []llm.Message, opts []llm.Option) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, Call{History: history, Options: llm.ApplyOptions(opts...)})
}

func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	p.record(history, opts)
	if p.Err != nil {
		return "", p.Err
	}
	return p.Reply, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func (p *Provider) Stream(ctx context.Context, history []llm.Message, opts ...llm.Option) (<-chan string, <-chan error) {
	p.record(history, opts)
	return llm.RunStream(ctx, func(ctx context.Context, emit llm.Emit) error {
		for _, c := range p.Chunks {
			if err := emit(c); err != nil {
				return err
			}
		}
		if p.Block {
			<-ctx.Done()
			return ctx.Err()
		}
		return p.StreamErr
	})
}
