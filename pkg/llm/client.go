package llm

import (
	"context"
	"time"
)

// Result is the outcome of one paced model call. A failed call yields empty Text,
// a Notice for the user and the underlying Err for logging.
type Result struct {
	Text     string
	Notice   Notice
	Err      error
	CalledAt time.Time
}

func (r Result) Failed() bool {
	return r.Err != nil
}

// Client wraps a provider with per-session pacing and never fails loudly.
type Client struct {
	provider LLMProvider
	pacer    *Pacer
}

func NewClient(provider LLMProvider, pacer *Pacer) *Client {
	return &Client{
		provider: provider,
		pacer:    pacer,
	}
}

// Chat waits out the pacing interval since lastCall, then streams history
// through the provider and folds the fragments. onFragment may be nil.
func (c *Client) Chat(ctx context.Context, lastCall time.Time, history []Message, onFragment func(string), opts ...Option) Result {
	if err := c.pacer.Wait(ctx, lastCall); err != nil {
		return failed(err)
	}

	text, err := AccumulateFunc(c.provider.Stream(ctx, history, opts...), onFragment)
	if err != nil {
		return failed(err)
	}
	return Result{Text: text, CalledAt: time.Now()}
}

// Generate sends a single user prompt without any history.
func (c *Client) Generate(ctx context.Context, lastCall time.Time, prompt string, opts ...Option) Result {
	return c.Chat(ctx, lastCall, []Message{{Role: RoleUser, Content: prompt}}, nil, opts...)
}

func failed(err error) Result {
	return Result{Notice: Classify(err), Err: err, CalledAt: time.Now()}
}
