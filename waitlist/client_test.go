package waitlist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/unleaktrade/site/types"
)

func TestRegisterAccepted(t *testing.T) {
	var got types.RegistrationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/register", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"hash":"abc"}`))
	}))
	defer srv.Close()

	reg, err := NewClient(srv.URL+"/", time.Second).Register(context.Background(), types.RegistrationRequest{
		Address: "wallet", Email: "x@y.z", Sponsor: "sponsor",
	})
	require.NoError(t, err)
	assert.True(t, reg.Accepted)
	assert.Equal(t, "abc", reg.Hash)
	assert.Equal(t, types.RegistrationRequest{Address: "wallet", Email: "x@y.z", Sponsor: "sponsor"}, got)
}

func TestRegisterWireFieldNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, map[string]string{"Address": "a", "Email": "e", "Sponsor": "s"}, raw)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	reg, err := NewClient(srv.URL, time.Second).Register(context.Background(), types.RegistrationRequest{
		Address: "a", Email: "e", Sponsor: "s",
	})
	require.NoError(t, err)
	assert.True(t, reg.Accepted)
	assert.Empty(t, reg.Hash)
}

func TestRegisterRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Address already registered"}`))
	}))
	defer srv.Close()

	reg, err := NewClient(srv.URL, time.Second).Register(context.Background(), types.RegistrationRequest{})
	require.NoError(t, err)
	assert.False(t, reg.Accepted)
	assert.Equal(t, http.StatusConflict, reg.Status)
	assert.Equal(t, "Address already registered", reg.Message)
}

func TestRegisterUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Register(context.Background(), types.RegistrationRequest{})
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestActivateOutcomes(t *testing.T) {
	cases := []struct {
		status  int
		body    string
		outcome Outcome
		address string
		message string
	}{
		{http.StatusCreated, `{"address":"wallet"}`, Activated, "wallet", ""},
		{http.StatusUnauthorized, `{"error":"nope"}`, AccessDenied, "", ""},
		{http.StatusConflict, ``, AlreadyActivated, "", ""},
		{http.StatusBadRequest, ``, SponsorNotFound, "", ""},
		{http.StatusInternalServerError, `{"error":"db down"}`, ServerError, "", "db down"},
		{http.StatusInternalServerError, `<html>oops</html>`, ServerError, "", ""},
		{http.StatusTeapot, ``, Failed, "", ""},
		{http.StatusOK, `{"address":"wallet"}`, Failed, "", ""},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/activate/tok/deadbeef", r.URL.Path)
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(tc.body))
		}))

		act, err := NewClient(srv.URL, time.Second).Activate(context.Background(), "tok", "deadbeef")
		srv.Close()

		require.NoError(t, err, tc.status)
		assert.Equal(t, tc.outcome, act.Outcome, tc.status)
		assert.Equal(t, tc.address, act.Address, tc.status)
		assert.Equal(t, tc.message, act.Message, tc.status)
	}
}

func TestActivateEscapesPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activate/a%2Fb/c", r.URL.EscapedPath())
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	act, err := NewClient(srv.URL, time.Second).Activate(context.Background(), "a/b", "c")
	require.NoError(t, err)
	assert.Equal(t, Activated, act.Outcome)
}

func TestActivateTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	act, err := NewClient(srv.URL, 50*time.Millisecond).Activate(context.Background(), "tok", "hash")
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.Equal(t, Unreachable, act.Outcome)
}

func TestLocksHash(t *testing.T) {
	assert.True(t, AccessDenied.LocksHash())
	assert.True(t, AlreadyActivated.LocksHash())
	assert.True(t, SponsorNotFound.LocksHash())

	assert.False(t, Activated.LocksHash())
	assert.False(t, ServerError.LocksHash())
	assert.False(t, Failed.LocksHash())
	assert.False(t, Unreachable.LocksHash())
}

func TestActivateRecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Activate(context.Background(), "tok", "hash")
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "waitlist.activate", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	var status int64
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "http.response.status_code" {
			status = kv.Value.AsInt64()
		}
	}
	assert.Equal(t, int64(http.StatusConflict), status)
}

func TestRegisterOnlyAcceptsAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"hash":"abc"}`))
	}))
	defer srv.Close()

	reg, err := NewClient(srv.URL, time.Second).Register(context.Background(), types.RegistrationRequest{})
	require.NoError(t, err)
	assert.False(t, reg.Accepted)
	assert.Empty(t, reg.Message)
}
