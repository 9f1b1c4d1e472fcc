package sdk

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/birbparty/artifacts-go/internal/telemetry"
)

// callOptions control how a single request moves through the pipeline.
type callOptions struct {
	// mutating marks an action request: it waits on the cooldown gate and
	// triggers a character refresh afterwards.
	mutating bool
	// bypassGate skips the cooldown wait. Read-only requests and the
	// refresh request itself use this.
	bypassGate bool
}

// requestPipeline sequences every request through the cooldown gate, the
// retry executor and the transport, and keeps the character snapshot fresh
// after mutating actions.
//
// The pipeline enforces a strict order for actions: wait for the gate,
// perform the call, refresh the character, arm the gate from the refreshed
// snapshot. An action holds actionMu across all three steps, so two
// goroutines can never both pass an expired gate and dispatch in parallel.
type requestPipeline struct {
	transport *httpTransport
	gate      *CooldownGate
	strategy  RetryStrategy
	observer  Observer
	logger    *logrus.Logger

	// actionMu serializes mutating actions from gate wait through the
	// post-action refresh.
	actionMu sync.Mutex

	// refresh re-fetches the character snapshot and arms the gate. Set by
	// the session after construction.
	refresh func(ctx context.Context) error

	// fatal is set when the server rejects the token. Every subsequent
	// request fails fast with the stored error.
	fatal atomic.Pointer[error]

	closed atomic.Bool
}

func newRequestPipeline(transport *httpTransport, gate *CooldownGate, config *Config) *requestPipeline {
	return &requestPipeline{
		transport: transport,
		gate:      gate,
		strategy:  config.retryStrategy(),
		observer:  config.Observer,
		logger:    config.Logger,
	}
}

// get runs a read-only GET. Reads never wait on the gate and never trigger
// a refresh.
func (p *requestPipeline) get(ctx context.Context, path string, query url.Values, out any) error {
	return p.execute(ctx, "GET", path, callOptions{bypassGate: true}, func(c context.Context) error {
		return p.transport.get(c, path, query, out)
	})
}

// action runs a mutating POST under the full cooldown contract.
func (p *requestPipeline) action(ctx context.Context, path string, body, out any) error {
	return p.execute(ctx, "POST", path, callOptions{mutating: true}, func(c context.Context) error {
		return p.transport.post(c, path, body, out)
	})
}

// post runs a POST that is not a character action, e.g. character creation.
// It refreshes nothing and skips the gate.
func (p *requestPipeline) post(ctx context.Context, path string, body, out any) error {
	return p.execute(ctx, "POST", path, callOptions{bypassGate: true}, func(c context.Context) error {
		return p.transport.post(c, path, body, out)
	})
}

func (p *requestPipeline) execute(ctx context.Context, method, path string, opts callOptions, call func(context.Context) error) error {
	if p.closed.Load() {
		return ErrClientClosed
	}
	if fatalErr := p.fatal.Load(); fatalErr != nil {
		return *fatalErr
	}

	if opts.mutating {
		p.actionMu.Lock()
		defer p.actionMu.Unlock()
	}

	if opts.mutating && !opts.bypassGate {
		if remaining := p.gate.Remaining(); remaining > 0 {
			p.observer.OnCooldownWait(remaining)
			telemetry.Entry(ctx, p.logger).WithFields(logrus.Fields{
				"remaining": remaining.String(),
				"endpoint":  path,
			}).Debug("waiting for cooldown")
		}
		if err := p.gate.AwaitClear(ctx); err != nil {
			return err
		}
	}

	executor := newRetryExecutor(p.strategy, func(attempt int, delay time.Duration, err error) {
		p.observer.OnRetryAttempt(method, path, attempt, delay, err)
		telemetry.Entry(ctx, p.logger).WithFields(logrus.Fields{
			"attempt":  attempt,
			"delay":    delay.String(),
			"endpoint": path,
			"error":    err.Error(),
		}).Warn("retrying request")
	})

	p.observer.OnRequestStart(method, path)
	start := time.Now()
	err := executor.execute(ctx, func() error {
		return call(ctx)
	})
	p.observer.OnRequestEnd(method, path, time.Since(start), err)

	if err != nil {
		if IsFatal(err) {
			p.fatal.CompareAndSwap(nil, &err)
			telemetry.Entry(ctx, p.logger).WithError(err).Error("authentication failed, client disabled")
		}
		// An action that was rejected with no effect on the world still
		// leaves server state consistent, so no refresh is needed.
		return err
	}

	if opts.mutating && p.refresh != nil {
		if refreshErr := p.refresh(ctx); refreshErr != nil {
			telemetry.Entry(ctx, p.logger).WithError(refreshErr).Warn("character refresh after action failed")
			return refreshErr
		}
	}
	return nil
}

// close puts the pipeline into a terminal state.
func (p *requestPipeline) close() {
	p.closed.Store(true)
}
