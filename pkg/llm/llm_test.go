package llm

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fragments(parts ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, p := range parts {
			if !yield(p, nil) {
				return
			}
		}
	}
}

type stubProvider struct {
	parts []string
	err   error
	calls int
	last  []Message
}

func (s *stubProvider) Chat(ctx context.Context, history []Message, opts ...Option) (string, error) {
	return Accumulate(s.Stream(ctx, history, opts...))
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	return s.Chat(ctx, []Message{{Role: RoleUser, Content: prompt}}, opts...)
}

func (s *stubProvider) Stream(ctx context.Context, history []Message, opts ...Option) iter.Seq2[string, error] {
	s.calls++
	s.last = history
	return func(yield func(string, error) bool) {
		for _, p := range s.parts {
			if !yield(p, nil) {
				return
			}
		}
		if s.err != nil {
			yield("", s.err)
		}
	}
}

func TestAccumulate(t *testing.T) {
	got, err := Accumulate(fragments("  Hello", ", ", "", "world  "))
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", got)
}

func TestAccumulate_ErrorDiscardsText(t *testing.T) {
	seq := func(yield func(string, error) bool) {
		if !yield("partial", nil) {
			return
		}
		yield("", errors.New("boom"))
	}
	got, err := Accumulate(seq)
	assert.Error(t, err)
	assert.Empty(t, got)
}

func TestAccumulateFunc_Callback(t *testing.T) {
	var seen []string
	got, err := AccumulateFunc(fragments("a", "", "b"), func(f string) { seen = append(seen, f) })
	require.NoError(t, err)
	assert.Equal(t, "ab", got)
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestSingle(t *testing.T) {
	got, err := Accumulate(Single(" done ", nil))
	require.NoError(t, err)
	assert.Equal(t, "done", got)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Notice
	}{
		{"nil", nil, NoticeNone},
		{"http 429", &HTTPError{Provider: "gemini", StatusCode: 429}, NoticeQuotaExceeded},
		{"wrapped 429", fmt.Errorf("call: %w", &HTTPError{StatusCode: 429}), NoticeQuotaExceeded},
		{"resource exhausted text", errors.New("rpc error: code = ResourceExhausted"), NoticeQuotaExceeded},
		{"http 500", &HTTPError{StatusCode: 500, Body: "oops"}, NoticeFailed},
		{"transport", errors.New("connection refused"), NoticeFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestApplyOptions(t *testing.T) {
	o := ApplyOptions()
	assert.Equal(t, 0.7, o.Temperature)

	o = ApplyOptions(WithTemperature(0.1), WithMaxTokens(64), WithModel("m"))
	assert.Equal(t, 0.1, o.Temperature)
	assert.Equal(t, 64, o.MaxTokens)
	assert.Equal(t, "m", o.Model)
}

func TestPacer_Delay(t *testing.T) {
	p := NewPacer(2 * time.Second)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		last time.Time
		want time.Duration
	}{
		{name: "never called", last: time.Time{}, want: 0},
		{name: "just called", last: now, want: 2 * time.Second},
		{name: "half way", last: now.Add(-500 * time.Millisecond), want: 1500 * time.Millisecond},
		{name: "interval passed", last: now.Add(-3 * time.Second), want: 0},
		{name: "clock ahead", last: now.Add(time.Second), want: 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, float64(tt.want), float64(p.Delay(tt.last, now)), float64(time.Millisecond))
		})
	}
}

func TestPacer_WaitsFromLastCall(t *testing.T) {
	p := NewPacer(80 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, p.Wait(ctx, time.Time{}))
	require.NoError(t, p.Wait(ctx, start.Add(-time.Second)))
	assert.Less(t, time.Since(start), 40*time.Millisecond, "an old call does not wait")

	last := time.Now()
	require.NoError(t, p.Wait(ctx, last))
	assert.GreaterOrEqual(t, time.Since(last), 60*time.Millisecond)
}

func TestPacer_HonoursContext(t *testing.T) {
	p := NewPacer(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, p.Wait(ctx, time.Now()))
}

func TestPacer_Disabled(t *testing.T) {
	var p *Pacer
	assert.NoError(t, p.Wait(context.Background(), time.Now()))
	assert.NoError(t, NewPacer(0).Wait(context.Background(), time.Now()))
}

func TestClient_Chat(t *testing.T) {
	provider := &stubProvider{parts: []string{"The answer ", "is 42. "}}
	client := NewClient(provider, NewPacer(0))

	var streamed []string
	res := client.Chat(context.Background(), time.Time{}, []Message{{Role: RoleUser, Content: "q"}}, func(f string) {
		streamed = append(streamed, f)
	})

	assert.False(t, res.Failed())
	assert.Equal(t, "The answer is 42.", res.Text)
	assert.Equal(t, NoticeNone, res.Notice)
	assert.Equal(t, []string{"The answer ", "is 42. "}, streamed)
	assert.False(t, res.CalledAt.IsZero())
}

func TestClient_DegradesToEmpty(t *testing.T) {
	provider := &stubProvider{parts: []string{"half"}, err: &HTTPError{StatusCode: 429}}
	client := NewClient(provider, nil)

	res := client.Generate(context.Background(), time.Time{}, "prompt")
	assert.True(t, res.Failed())
	assert.Empty(t, res.Text)
	assert.Equal(t, NoticeQuotaExceeded, res.Notice)
	assert.Equal(t, []Message{{Role: RoleUser, Content: "prompt"}}, provider.last)
}
