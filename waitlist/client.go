// Package waitlist talks to the remote waitlist service: registration, which
// triggers the verification email, and activation of a registration hash.
package waitlist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/unleaktrade/site/types"
)

const tracerName = "github.com/unleaktrade/site/waitlist"

// ErrUnreachable wraps every failure to get an HTTP response at all.
var ErrUnreachable = errors.New("waitlist service unreachable")

// Registration is the service's answer to a signup.
type Registration struct {
	Accepted bool
	Hash     string
	Message  string
	Status   int
}

// Activation is the service's answer to an activation attempt.
type Activation struct {
	Outcome Outcome
	Address string
	Message string
	Status  int
}

type Client struct {
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tracer:  otel.Tracer(tracerName),
	}
}

// Register posts a signup. Every HTTP response is a Registration; only
// transport failures are errors.
func (cl *Client) Register(ctx context.Context, req types.RegistrationRequest) (Registration, error) {
	ctx, span := cl.tracer.Start(ctx, "waitlist.register", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	body, err := json.Marshal(req)
	if err != nil {
		return Registration{}, fmt.Errorf("encode registration: %w", err)
	}

	status, payload, err := cl.post(ctx, span, cl.baseURL+"/register", body)
	if err != nil {
		return Registration{}, err
	}

	if status == http.StatusAccepted {
		var ok types.RegistrationResponse
		// a 202 without a usable body is still accepted, just without a hash
		_ = json.Unmarshal(payload, &ok)
		return Registration{Accepted: true, Hash: ok.Hash, Status: status}, nil
	}

	var rejected types.RegistrationError
	_ = json.Unmarshal(payload, &rejected)
	span.SetStatus(codes.Error, "registration rejected")
	return Registration{Message: rejected.Message, Status: status}, nil
}

// Activate submits the token from the activation link with the hash the
// visitor entered.
func (cl *Client) Activate(ctx context.Context, token, hash string) (Activation, error) {
	ctx, span := cl.tracer.Start(ctx, "waitlist.activate", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	endpoint := fmt.Sprintf("%s/activate/%s/%s", cl.baseURL, url.PathEscape(token), url.PathEscape(hash))
	status, payload, err := cl.post(ctx, span, endpoint, nil)
	if err != nil {
		return Activation{Outcome: Unreachable}, err
	}

	act := Activation{Outcome: Classify(status), Status: status}
	switch act.Outcome {
	case Activated:
		var ok types.ActivationResponse
		_ = json.Unmarshal(payload, &ok)
		act.Address = ok.Address
	case ServerError:
		var failed types.ActivationError
		if json.Unmarshal(payload, &failed) == nil {
			act.Message = failed.Error
		}
	}
	if act.Outcome != Activated {
		span.SetStatus(codes.Error, act.Outcome.String())
	}
	return act, nil
}

func (cl *Client) post(ctx context.Context, span trace.Span, endpoint string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := cl.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unreachable")
		return 0, nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	payload, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		span.RecordError(err)
		return 0, nil, fmt.Errorf("%w: read body: %w", ErrUnreachable, err)
	}
	return resp.StatusCode, payload, nil
}
