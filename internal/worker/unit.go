// Package worker runs chart transforms in isolated computation units. A unit
// owns one goroutine and talks to its host only through encoded messages.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"plancharts/internal/metrics"
	"plancharts/internal/protocol"
)

var (
	ErrTerminated = errors.New("unit terminated")
	// ErrPanic prefixes the error response of a transform that panicked.
	ErrPanic = errors.New("internal error")
)

// HandlerFunc turns one encoded request into one encoded response.
type HandlerFunc func(raw []byte) []byte

const defaultBuffer = 16

type options struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
	buffer  int
	actions map[string]bool
}

type Option func(*options)

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithBuffer sizes the inbox and outbox. Zero makes Post wait for the unit.
func WithBuffer(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.buffer = n
		}
	}
}

// WithActions limits the action label recorded in metrics to the given
// set; anything else is recorded as "other".
func WithActions(actions ...string) Option {
	return func(o *options) {
		o.actions = make(map[string]bool, len(actions))
		for _, a := range actions {
			o.actions[a] = true
		}
	}
}

// Unit processes one request at a time, in arrival order, and emits exactly
// one response per request on Messages. Nothing but byte slices crosses the
// boundary, and Post copies its argument.
type Unit struct {
	name   string
	handle HandlerFunc
	opts   options
	logger *zap.Logger

	inbox  chan []byte
	outbox chan []byte

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// Start launches a unit named name around h.
func Start(name string, h HandlerFunc, opts ...Option) *Unit {
	o := options{logger: zap.NewNop(), buffer: defaultBuffer}
	for _, fn := range opts {
		fn(&o)
	}
	u := &Unit{
		name:   name,
		handle: h,
		opts:   o,
		logger: o.logger.Named("worker").With(zap.String("unit", name)),
		inbox:  make(chan []byte, o.buffer),
		outbox: make(chan []byte, o.buffer),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	o.metrics.UnitStarted(name)
	go u.run()
	return u
}

func (u *Unit) Name() string { return u.name }

// Post queues msg. It fails with ErrTerminated once the unit is stopping,
// or with the context error if ctx ends while the inbox is full.
func (u *Unit) Post(ctx context.Context, msg []byte) error {
	select {
	case <-u.stop:
		return ErrTerminated
	default:
	}
	cp := append([]byte(nil), msg...)
	select {
	case u.inbox <- cp:
		return nil
	case <-u.stop:
		return ErrTerminated
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Messages delivers responses in completion order. It is closed when the
// unit stops.
func (u *Unit) Messages() <-chan []byte { return u.outbox }

// Terminate stops the unit without waiting. A transform already running
// completes but its response is dropped; queued requests are discarded.
func (u *Unit) Terminate() {
	u.stopOnce.Do(func() { close(u.stop) })
}

// Done is closed once the unit's goroutine has exited.
func (u *Unit) Done() <-chan struct{} { return u.done }

func (u *Unit) run() {
	defer close(u.done)
	defer close(u.outbox)
	defer u.opts.metrics.UnitStopped(u.name)
	u.logger.Debug("unit started")
	defer u.logger.Debug("unit stopped")

	for {
		// Terminate wins over pending work.
		select {
		case <-u.stop:
			return
		default:
		}
		select {
		case <-u.stop:
			return
		case msg := <-u.inbox:
			resp := u.process(msg)
			select {
			case <-u.stop:
				u.logger.Debug("dropping response after terminate", zap.String("action", protocol.ActionOf(msg)))
				return
			default:
			}
			select {
			case u.outbox <- resp:
			case <-u.stop:
				return
			}
		}
	}
}

// process runs the handler behind a recover boundary, so a panic becomes
// an ordinary error response and the unit keeps serving.
func (u *Unit) process(msg []byte) (resp []byte) {
	start := time.Now()
	action := protocol.ActionOf(msg)
	if u.opts.actions != nil && !u.opts.actions[action] {
		action = "other"
	}
	outcome := metrics.OutcomeOK

	defer func() {
		if r := recover(); r != nil {
			outcome = metrics.OutcomePanic
			env, _ := protocol.DecodeEnvelope(msg)
			u.logger.Error("transform panicked",
				zap.String("action", action),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			resp = protocol.Failure(env.ID, fmt.Errorf("%w: %v", ErrPanic, r)).Encode()
		}
		u.opts.metrics.ObserveRequest(u.name, action, outcome, time.Since(start))
	}()

	resp = u.handle(msg)
	if protocol.ActionOf(resp) == protocol.ActionError {
		outcome = metrics.OutcomeError
	}
	return resp
}
