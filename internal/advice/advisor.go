package advice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"budgeter/internal/cache"
	"budgeter/internal/core"

	"golang.org/x/sync/singleflight"
)

const defaultTimeout = 15 * time.Second

var errEmptyReply = errors.New("provider returned an empty reply")

// Options configures an Advisor.
type Options struct {
	// Timeout bounds a single provider call (default 15s).
	Timeout time.Duration
	// Cache stores successful replies by prompt. Optional.
	Cache *cache.LRUCache[string]
	// Fallback answers when the provider is missing or fails. Defaults to Static{}.
	Fallback Provider
}

// Reply is what the chat endpoint returns to the user.
type Reply struct {
	Text string
	// Degraded is set when the fallback answered instead of the provider.
	Degraded bool
	Cached   bool
}

// Advisor wraps a Provider with a timeout, a reply cache and a fallback so
// that asking for advice never fails because of the provider.
type Advisor struct {
	provider Provider
	fallback Provider
	timeout  time.Duration
	replies  *cache.LRUCache[string]
	group    singleflight.Group
}

// NewAdvisor returns an Advisor. A nil provider means every answer comes from
// the fallback.
func NewAdvisor(provider Provider, opts Options) *Advisor {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Fallback == nil {
		opts.Fallback = Static{}
	}
	return &Advisor{
		provider: provider,
		fallback: opts.Fallback,
		timeout:  opts.Timeout,
		replies:  opts.Cache,
	}
}

// Enabled reports whether a real provider is configured.
func (a *Advisor) Enabled() bool {
	return a.provider != nil
}

// Reply answers a chat message given the earlier turns. The only error is a
// *core.ValidationError for an empty message.
func (a *Advisor) Reply(ctx context.Context, message string, turns []Turn) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, &core.ValidationError{Err: core.ErrMalformedRequest, Field: "message", Msg: "empty message"}
	}
	return a.Advise(ctx, BuildPrompt(message, turns)), nil
}

// Advise sends a raw prompt to the provider.
func (a *Advisor) Advise(ctx context.Context, prompt string) Reply {
	if a.provider == nil {
		return a.fallbackReply(ctx, prompt)
	}

	key := promptKey(prompt)
	if a.replies != nil {
		if text, ok := a.replies.Get(key); ok {
			slog.DebugContext(ctx, "Advice cache hit", "prompt_key", key)
			return Reply{Text: text, Cached: true}
		}
	}

	// Identical prompts in flight share one upstream call. The call is detached
	// from the first caller's cancellation and bounded by the timeout instead.
	v, err, shared := a.group.Do(key, func() (any, error) {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()

		start := time.Now()
		text, err := a.provider.Advise(cctx, prompt)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			return "", errEmptyReply
		}
		slog.InfoContext(ctx, "Advice generated", "duration_ms", time.Since(start).Milliseconds(), "reply_chars", len(text))
		if a.replies != nil {
			a.replies.Set(key, text)
		}
		return text, nil
	})
	if err != nil {
		slog.WarnContext(ctx, "AI provider failed, using fallback reply",
			"error", fmt.Errorf("%w: %w", core.ErrCollaboratorUnavailable, err),
			"shared", shared)
		return a.fallbackReply(ctx, prompt)
	}
	return Reply{Text: v.(string)}
}

func (a *Advisor) fallbackReply(ctx context.Context, prompt string) Reply {
	text, err := a.fallback.Advise(ctx, prompt)
	if err != nil || text == "" {
		text = FallbackReply
	}
	return Reply{Text: text, Degraded: true}
}

func promptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
