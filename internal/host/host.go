// Package host is the result consumer side of the computation layer: it
// starts a unit per request, correlates the response by id and falls back
// to the default dataset's table when a transform fails.
package host

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"plancharts/internal/charts"
	"plancharts/internal/metrics"
	"plancharts/internal/model"
	"plancharts/internal/protocol"
	"plancharts/internal/worker"
)

var ErrUnknownDomain = errors.New("unknown domain")

// Outcome is one rendered request.
type Outcome struct {
	Domain   string
	Response protocol.Response
	// Fallback is the default dataset's table, set when Response is an
	// error so the caller can still show something.
	Fallback *model.Table
	// Err is set by RenderAll when no response could be obtained.
	Err error
}

// Job is one request of a RenderAll batch.
type Job struct {
	Domain  string
	Request []byte
}

type Host struct {
	catalog     *charts.Catalog
	logger      *zap.Logger
	metrics     *metrics.Metrics
	concurrency int
}

type Option func(*Host)

func WithLogger(l *zap.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Host) { h.metrics = m }
}

// WithConcurrency caps the number of units RenderAll runs at once.
// Zero or less means no cap.
func WithConcurrency(n int) Option {
	return func(h *Host) { h.concurrency = n }
}

func New(catalog *charts.Catalog, opts ...Option) *Host {
	h := &Host{catalog: catalog, logger: zap.NewNop()}
	for _, o := range opts {
		o(h)
	}
	h.logger = h.logger.Named("host")
	return h
}

// Render runs raw against a fresh unit for domain and waits for its
// response or for ctx to end. A failed transform is not an error here: it
// comes back as an error Response with Fallback set.
func (h *Host) Render(ctx context.Context, domain string, raw []byte) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{Domain: domain}, err
	}
	d, ok := h.catalog.Domain(domain)
	if !ok {
		return Outcome{Domain: domain}, fmt.Errorf("%w %q", ErrUnknownDomain, domain)
	}
	u := worker.Start(d.Name(), charts.Handler(d),
		worker.WithLogger(h.logger),
		worker.WithMetrics(h.metrics),
		worker.WithActions(d.Actions()...),
		worker.WithBuffer(1),
	)
	defer u.Terminate()

	resp, err := h.roundTrip(ctx, u, raw)
	if err != nil {
		return Outcome{Domain: domain}, err
	}
	out := Outcome{Domain: domain, Response: resp}
	if resp.IsError() {
		h.logger.Warn("chart transform failed, falling back to default table",
			zap.String("domain", domain),
			zap.String("error", resp.Error),
		)
		out.Fallback = h.fallback(ctx, u, d)
	}
	return out, nil
}

// RenderAll renders every job on its own unit. Outcomes line up with jobs;
// a failing job never affects the others.
func (h *Host) RenderAll(ctx context.Context, jobs []Job) []Outcome {
	out := make([]Outcome, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	if h.concurrency > 0 {
		g.SetLimit(h.concurrency)
	}
	for i, job := range jobs {
		g.Go(func() error {
			o, err := h.Render(gctx, job.Domain, job.Request)
			if err != nil {
				h.logger.Warn("render failed", zap.String("domain", job.Domain), zap.Error(err))
				o.Err = err
			}
			out[i] = o
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// roundTrip posts raw and waits for the response carrying its id. Requests
// without an id get a UUID, which is removed again from the response. An id
// of the wrong type is left in place for the unit to reject.
func (h *Host) roundTrip(ctx context.Context, u *worker.Unit, raw []byte) (protocol.Response, error) {
	env, _ := protocol.DecodeEnvelope(raw)
	callerID := env.ID
	id := callerID
	msg := raw
	if id == nil && !protocol.HasID(raw) {
		assigned, _ := protocol.Marshal(uuid.NewString())
		if tagged, err := protocol.SetID(raw, assigned); err == nil {
			msg, id = tagged, assigned
		}
	}

	if err := u.Post(ctx, msg); err != nil {
		return protocol.Response{}, err
	}
	for {
		select {
		case <-ctx.Done():
			return protocol.Response{}, ctx.Err()
		case encoded, ok := <-u.Messages():
			if !ok {
				return protocol.Response{}, worker.ErrTerminated
			}
			resp, err := protocol.DecodeResponse(encoded)
			if err != nil {
				return protocol.Response{}, err
			}
			if id != nil && !bytes.Equal(resp.ID, id) {
				h.logger.Debug("ignoring uncorrelated response", zap.ByteString("id", resp.ID))
				continue
			}
			if callerID == nil {
				resp.ID = nil
			}
			return resp, nil
		}
	}
}

func (h *Host) fallback(ctx context.Context, u *worker.Unit, d charts.Domain) *model.Table {
	req, err := protocol.NewRequest(d.Actions()[0], nil)
	if err != nil {
		return nil
	}
	resp, err := h.roundTrip(ctx, u, req)
	if err != nil || resp.IsError() || resp.ChartData == nil || resp.ChartData.Empty() {
		h.logger.Error("default dataset failed to render", zap.String("domain", d.Name()), zap.Error(err))
		return nil
	}
	t := resp.ChartData.TableData
	return &t
}
