package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"safelens/internal/domain"
)

const (
	defaultWorkers     = 4
	defaultSendTimeout = 10 * time.Second
)

// Dispatcher fans one alert message out to a recipient list through a
// Channel. It holds no per-call state and is safe for concurrent use.
//
// Status policy: per-recipient failures never abort the batch and an
// all-fail batch after a successful Ready still reports partial_success;
// error is reserved for Ready failure. Kept as-is pending product
// confirmation.
type Dispatcher struct {
	channel     Channel
	from        string
	workers     int
	sendTimeout time.Duration
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithWorkers bounds the number of concurrent delivery attempts per batch.
func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithSendTimeout bounds each individual delivery attempt. Expiry is a
// per-recipient failure, not a batch failure.
func WithSendTimeout(t time.Duration) Option {
	return func(d *Dispatcher) {
		if t > 0 {
			d.sendTimeout = t
		}
	}
}

// NewDispatcher creates a Dispatcher sending through the given channel.
// An empty from defers to the channel's configured sender identity,
// which some channels resolve lazily from credentials.
func NewDispatcher(channel Channel, from string, opts ...Option) (*Dispatcher, error) {
	if channel == nil {
		return nil, errors.New("dispatch: channel must not be nil")
	}
	d := &Dispatcher{
		channel:     channel,
		from:        from,
		workers:     defaultWorkers,
		sendTimeout: defaultSendTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Dispatch attempts delivery of body to every recipient and aggregates
// the outcomes. Outcomes are aligned with the input order regardless of
// completion order. An empty recipient list is a well-formed success
// with zero counts.
func (d *Dispatcher) Dispatch(ctx context.Context, recipients []string, body string) domain.DispatchResult {
	if err := d.channel.Ready(ctx); err != nil {
		return domain.DispatchResult{
			Status:   domain.DispatchError,
			Outcomes: []domain.Outcome{},
			Summary:  fmt.Sprintf("Critical channel error: %v", err),
		}
	}

	outcomes := make([]domain.Outcome, len(recipients))
	jobs := make(chan int)

	workers := d.workers
	if workers > len(recipients) {
		workers = len(recipients)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				outcomes[idx] = d.attempt(ctx, recipients[idx], body)
			}
		}()
	}
	for idx := range recipients {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	sent, failed := 0, 0
	for _, o := range outcomes {
		if o.Delivered {
			sent++
		} else {
			failed++
		}
	}

	status := domain.DispatchSuccess
	if failed > 0 {
		status = domain.DispatchPartialSuccess
	}
	return domain.DispatchResult{
		Status:      status,
		SentCount:   sent,
		FailedCount: failed,
		Outcomes:    outcomes,
		Summary:     fmt.Sprintf("Alerts sent: %d. Failed: %d.", sent, failed),
	}
}

// attempt delivers to a single recipient. Failures are recorded, never
// propagated; one recipient can never abort another's attempt.
func (d *Dispatcher) attempt(ctx context.Context, recipient, body string) domain.Outcome {
	to := strings.TrimSpace(recipient)
	if to == "" {
		return domain.Outcome{Recipient: recipient, Reason: "empty recipient"}
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	id, err := d.channel.Send(sendCtx, to, d.from, body)
	if err != nil {
		return domain.Outcome{Recipient: to, Reason: err.Error()}
	}
	return domain.Outcome{Recipient: to, Delivered: true, DeliveryID: id}
}
