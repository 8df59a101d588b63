package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	server "github.com/secmon-lab/qaboard/pkg/controller/http"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
	"github.com/secmon-lab/qaboard/pkg/repository/memory"
	"github.com/secmon-lab/qaboard/pkg/service/api"
	"github.com/secmon-lab/qaboard/pkg/usecase"
)

func newBackend(t *testing.T) (*httptest.Server, *memory.Memory) {
	t.Helper()
	ctx := context.Background()

	repo := memory.New()
	gt.NoError(t, repo.KPI().PutSeries(ctx, model.KPISeries{
		types.MetricTestCoverage: {70, 75, 80, 82},
	})).Required()
	gt.NoError(t, repo.KPI().PutTargets(ctx, model.KPITargets{
		types.MetricTestCoverage: 80,
	})).Required()
	gt.NoError(t, repo.Risk().PutPredefined(ctx, []*model.PredefinedRisk{
		{ID: "R1", Description: "Late requirement changes"},
	})).Required()

	ts := httptest.NewServer(server.New(usecase.New(repo)))
	t.Cleanup(ts.Close)
	return ts, repo
}

func TestClientAgainstServer(t *testing.T) {
	ts, repo := newBackend(t)
	ctx := context.Background()

	client, err := api.New(ts.URL)
	gt.NoError(t, err).Required()

	series, err := client.FetchKPISeries(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, series[types.MetricTestCoverage]).Equal([]float64{70, 75, 80, 82})

	targets, err := client.FetchKPITargets(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, targets[types.MetricTestCoverage]).Equal(80.0)

	defs, err := client.FetchMetricDefinitions(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, defs.Direction(types.MetricTestCoverage)).Equal(types.DirectionHigher)

	gt.NoError(t, client.SubmitRisk(ctx, &model.Risk{
		ID:          "R1",
		Description: "Late requirement changes",
		Likelihood:  3,
		Impact:      4,
	})).Required()

	risks, err := client.FetchRisks(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, risks).Length(1)

	catalog, err := client.FetchPredefinedRisks(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, catalog).Length(0)

	gt.NoError(t, client.SubmitFeedback(ctx, &model.Feedback{
		Valuable:  []types.MetricName{types.MetricTestCoverage},
		Timestamp: time.Now(),
	})).Required()
	list, err := repo.Feedback().List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, list).Length(1)
}

func TestClientStatusError(t *testing.T) {
	ts, _ := newBackend(t)
	client, err := api.New(ts.URL, api.WithRetries(0))
	gt.NoError(t, err).Required()

	err = client.SubmitRisk(context.Background(), &model.Risk{ID: "R1", Likelihood: 9, Impact: 1})
	gt.Error(t, err).Is(api.ErrUnexpectedStatus)

	var se *api.StatusError
	gt.Bool(t, errors.As(err, &se)).True()
	gt.Value(t, se.StatusCode).Equal(http.StatusBadRequest)
}

func TestClientRetriesWithSameKey(t *testing.T) {
	var mu sync.Mutex
	var keys []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		if len(keys) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	client, err := api.New(ts.URL, api.WithRetries(2), api.WithBackoff(time.Millisecond))
	gt.NoError(t, err).Required()

	gt.NoError(t, client.SubmitFeedback(context.Background(), &model.Feedback{}))
	gt.Array(t, keys).Length(3).Required()
	gt.String(t, keys[0]).NotEqual("")
	gt.Value(t, keys[1]).Equal(keys[0])
	gt.Value(t, keys[2]).Equal(keys[0])
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad", http.StatusBadRequest)
	}))
	defer ts.Close()

	client, err := api.New(ts.URL, api.WithRetries(3), api.WithBackoff(time.Millisecond))
	gt.NoError(t, err).Required()

	gt.Error(t, client.SubmitRisk(context.Background(), &model.Risk{ID: "R1"})).Is(api.ErrUnexpectedStatus)
	gt.Value(t, calls).Equal(1)
}

func TestClientDoesNotRetryReads(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client, err := api.New(ts.URL, api.WithRetries(3))
	gt.NoError(t, err).Required()

	_, err = client.FetchKPISeries(context.Background())
	gt.Error(t, err).Is(api.ErrUnexpectedStatus)
	gt.Value(t, calls).Equal(1)
}

func TestClientTransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	client, err := api.New(url, api.WithRetries(1), api.WithBackoff(time.Millisecond))
	gt.NoError(t, err).Required()

	_, err = client.FetchRisks(context.Background())
	gt.Error(t, err).Is(api.ErrTransport)

	gt.Error(t, client.SubmitFeedback(context.Background(), &model.Feedback{})).Is(api.ErrTransport)
}

func TestNewRejectsInvalidURL(t *testing.T) {
	_, err := api.New("ftp://example.com")
	gt.Error(t, err)
}

func TestClientRejectsNullEntries(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/risks":
			_, _ = w.Write([]byte(`[{"id":"R0","description":"x","likelihood":4,"impact":3},null]`))
		default:
			_, _ = w.Write([]byte(`[null]`))
		}
	}))
	defer ts.Close()

	client, err := api.New(ts.URL)
	gt.NoError(t, err).Required()

	_, err = client.FetchRisks(context.Background())
	gt.Error(t, err).Is(api.ErrDecode)
	gt.Error(t, err).Is(model.ErrNilEntry)

	_, err = client.FetchPredefinedRisks(context.Background())
	gt.Error(t, err).Is(api.ErrDecode)
	gt.Error(t, err).Is(model.ErrNilEntry)
}

func TestClientTransportErrorKeepsCause(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer ts.Close()
	defer close(release)

	client, err := api.New(ts.URL)
	gt.NoError(t, err).Required()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.FetchRisks(ctx)
	gt.Error(t, err).Is(api.ErrTransport)
	gt.Error(t, err).Is(context.DeadlineExceeded)
}
