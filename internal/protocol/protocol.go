// Package protocol defines the request/response envelope exchanged with
// computation units. Requests carry an action tag, an optional caller id
// and the domain input inline; every request gets exactly one response.
package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"plancharts/internal/model"
)

// ActionError tags failure responses.
const ActionError = "error"

var ErrMalformedEnvelope = errors.New("malformed envelope")

// Envelope is a decoded request. Body is the full request object, so
// domain fields are read from it directly.
type Envelope struct {
	Action string
	ID     json.RawMessage
	Body   json.RawMessage
}

type header struct {
	Action *string         `json:"action"`
	ID     json.RawMessage `json:"id"`
}

// DecodeEnvelope parses raw. The returned envelope carries the id even when
// decoding fails, so the failure can still be correlated.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Envelope{}, fmt.Errorf("%w: action is required", ErrMalformedEnvelope)
	}
	if trimmed[0] != '{' {
		return Envelope{}, fmt.Errorf("%w: request must be a JSON object", ErrMalformedEnvelope)
	}
	var h header
	if err := json.Unmarshal(trimmed, &h); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	env := Envelope{Body: json.RawMessage(trimmed)}
	id, err := normalizeID(h.ID)
	if err != nil {
		return env, err
	}
	env.ID = id
	if h.Action == nil || *h.Action == "" {
		return env, fmt.Errorf("%w: action is required", ErrMalformedEnvelope)
	}
	env.Action = *h.Action
	return env, nil
}

// normalizeID accepts a string or number id and drops null.
func normalizeID(id json.RawMessage) (json.RawMessage, error) {
	id = bytes.TrimSpace(id)
	if len(id) == 0 || bytes.Equal(id, []byte("null")) {
		return nil, nil
	}
	switch c := id[0]; {
	case c == '"', c == '-', c >= '0' && c <= '9':
		return id, nil
	default:
		return nil, fmt.Errorf("%w: id must be a string or number", ErrMalformedEnvelope)
	}
}

// HasID reports whether raw is an object whose id key is present and not
// null, whatever its type.
func HasID(raw []byte) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}
	id, ok := fields["id"]
	return ok && !bytes.Equal(bytes.TrimSpace(id), []byte("null"))
}

// Decode unmarshals the envelope body into v.
func (e Envelope) Decode(v any) error {
	return json.Unmarshal(e.Body, v)
}

// Response is a success or failure reply.
type Response struct {
	Action      string              `json:"action"`
	ID          json.RawMessage     `json:"id,omitempty"`
	ChartData   *model.ChartPayload `json:"chartData,omitempty"`
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Caption     string              `json:"caption,omitempty"`
	Error       string              `json:"error,omitempty"`
}

func Success(action string, id json.RawMessage, payload model.ChartPayload, c model.Captions) Response {
	return Response{
		Action:      action,
		ID:          id,
		ChartData:   &payload,
		Title:       c.Title,
		Description: c.Description,
		Caption:     c.Caption,
	}
}

func Failure(id json.RawMessage, err error) Response {
	return Response{Action: ActionError, ID: id, Error: err.Error()}
}

func (r Response) IsError() bool { return r.Action == ActionError }

// Err returns the failure as an error, or nil for a success.
func (r Response) Err() error {
	if !r.IsError() {
		return nil
	}
	return errors.New(r.Error)
}

// Encode marshals r. A payload that cannot be encoded becomes a failure
// response carrying the same id.
func (r Response) Encode() []byte {
	raw, err := Marshal(r)
	if err != nil {
		raw, _ = Marshal(Failure(r.ID, fmt.Errorf("encode response: %w", err)))
	}
	return raw
}

// Marshal is json.Marshal without HTML escaping, so ids and text pass
// through unchanged.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func DecodeResponse(raw []byte) (Response, error) {
	var r Response
	if err := json.Unmarshal(raw, &r); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	if r.Action == "" {
		return Response{}, errors.New("decode response: missing action")
	}
	return r, nil
}

// ActionOf returns the action tag of an encoded request or response, or ""
// when there is none.
func ActionOf(raw []byte) string {
	var h struct {
		Action string `json:"action"`
	}
	_ = json.Unmarshal(raw, &h)
	return h.Action
}

// NewRequest encodes input with action set. input may be nil.
func NewRequest(action string, input any) ([]byte, error) {
	fields := map[string]json.RawMessage{}
	if input != nil {
		raw, err := Marshal(input)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("request input must encode as an object: %w", err)
		}
	}
	a, _ := Marshal(action)
	fields["action"] = a
	return Marshal(fields)
}

// SetID returns raw with its id replaced; a nil id removes it.
func SetID(raw []byte, id json.RawMessage) ([]byte, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	if id == nil {
		delete(fields, "id")
	} else {
		fields["id"] = id
	}
	return Marshal(fields)
}
