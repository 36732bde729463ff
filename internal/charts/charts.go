// Package charts holds one transform per chart domain. A domain decodes the
// request envelope into one of its own request variants, fills missing input
// from the default datasets and turns it into a chart payload.
package charts

import (
	"errors"
	"fmt"
	"math"

	"plancharts/internal/defaults"
	"plancharts/internal/format"
	"plancharts/internal/model"
	"plancharts/internal/protocol"
)

var (
	ErrMalformed     = errors.New("malformed input")
	ErrUnknownAction = errors.New("unknown action")
)

// Request actions and their success tags.
const (
	ActionPrepareData        = "prepareData"
	ActionDataReady          = "dataReady"
	ActionCalculateGrowth    = "calculateGrowth"
	ActionGrowthCalculated   = "growthCalculated"
	ActionPrepareFundingData = "prepareFundingData"
	ActionFundingDataReady   = "fundingDataReady"
	ActionProcessRiskData    = "processRiskData"
	ActionRiskDataProcessed  = "riskDataProcessed"
	ActionProcessSwotData    = "processSwotData"
	ActionSwotDataProcessed  = "swotDataProcessed"
)

// Deps are injected into every domain. Datasets must not be mutated.
type Deps struct {
	Datasets *defaults.Datasets
	Format   *format.Formatter
	// Milestone is the fallback market milestone in $B when neither the
	// request nor the dataset names one.
	Milestone float64
}

// Request is a decoded request variant. Each domain defines its own closed
// set of variants.
type Request interface {
	request()
}

// Result is a successful transform.
type Result struct {
	Action   string
	Payload  model.ChartPayload
	Captions model.Captions
}

type Domain interface {
	Name() string
	// Actions lists the accepted request actions; the first one renders the
	// domain's main chart.
	Actions() []string
	Decode(env protocol.Envelope) (Request, error)
	Transform(req Request) (Result, error)
}

// Handle runs one encoded request through d and returns the encoded response.
func Handle(d Domain, raw []byte) []byte {
	env, err := protocol.DecodeEnvelope(raw)
	if err != nil {
		return protocol.Failure(env.ID, err).Encode()
	}
	req, err := d.Decode(env)
	if err != nil {
		return protocol.Failure(env.ID, err).Encode()
	}
	res, err := d.Transform(req)
	if err != nil {
		return protocol.Failure(env.ID, err).Encode()
	}
	return protocol.Success(res.Action, env.ID, res.Payload, res.Captions).Encode()
}

// Handler adapts d to a byte-in, byte-out message handler.
func Handler(d Domain) func([]byte) []byte {
	return func(raw []byte) []byte { return Handle(d, raw) }
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

func unknownAction(action, domain string) error {
	return fmt.Errorf("%w %q for %s", ErrUnknownAction, action, domain)
}

// unexpectedRequest guards the type switches in Transform; it fires only
// when a request decoded by one domain is handed to another.
func unexpectedRequest(req Request, domain string) error {
	return fmt.Errorf("%w %T for %s", ErrUnknownAction, req, domain)
}

func decodeInput(env protocol.Envelope, v any) error {
	if err := env.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// captions takes each display string from in, falling back to def.
func captions(in, def model.Captions) model.Captions {
	out := in
	if out.Title == "" {
		out.Title = def.Title
	}
	if out.Description == "" {
		out.Description = def.Description
	}
	if out.Caption == "" {
		out.Caption = def.Caption
	}
	return out
}

func checkYears(years []int) error {
	if err := model.ValidateYears(years); err != nil {
		return malformed("%v", err)
	}
	return nil
}

func checkAligned(years []int, cols map[string][]float64) error {
	if err := model.ValidateAligned(years, cols); err != nil {
		return malformed("%v", err)
	}
	return nil
}

func checkNonNegative(name string, values []float64) error {
	for i, v := range values {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return malformed("%s[%d] must be a non-negative number, got %v", name, i, v)
		}
	}
	return nil
}

func valueOf(v float64, ok bool) model.Value {
	if !ok {
		return model.Null
	}
	return model.V(v)
}

func sumColumns(cols [][]float64, n int) []float64 {
	out := make([]float64, n)
	for _, c := range cols {
		for i := 0; i < n && i < len(c); i++ {
			out[i] += c[i]
		}
	}
	return out
}
