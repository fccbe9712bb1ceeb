package source

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/huangsam/birkin/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBody = `{
  "success": true,
  "data": {
    "Birkin 25": {
      "Palladium": {
        "Precious Skin": [
          {"year": 2023, "price": 20000},
          {"year": 2024, "month": "Jan", "price": 22000}
        ]
      }
    }
  }
}`

func newServer(t *testing.T, status int, body string, calls *int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		reqBody, _ := io.ReadAll(r.Body)
		assert.Equal(t, "{}", string(reqBody))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchSuccess(t *testing.T) {
	calls := 0
	srv := newServer(t, http.StatusOK, validBody, &calls)

	res := NewClient(srv.URL, "").Fetch(context.Background())
	require.NoError(t, res.Err)
	assert.False(t, res.Degraded())
	assert.Equal(t, 1, calls)

	pts := res.Data.Series(schema.SeriesKey{Model: schema.Birkin25, Hardware: schema.Palladium, Special: schema.PreciousSkin})
	require.Len(t, pts, 2)
	assert.Equal(t, schema.PricePoint{Year: 2023, Price: 20000}, pts[0])
	assert.Equal(t, schema.PricePoint{Year: 2024, Month: "Jan", Price: 22000}, pts[1])
}

func TestFetchDegrades(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		reason string
	}{
		{"non-2xx status", http.StatusInternalServerError, `{"success":true,"data":{}}`, "status 500"},
		{"malformed json", http.StatusOK, `{"success":tru`, "decode pricing body"},
		{"success false with error", http.StatusOK, `{"success":false,"error":"quota exceeded"}`, "quota exceeded"},
		{"success false without error", http.StatusOK, `{"success":false}`, "reported failure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			srv := newServer(t, tt.status, tt.body, &calls)

			res := NewClient(srv.URL, "").Fetch(context.Background())
			assert.True(t, res.Degraded())
			assert.Contains(t, res.Err.Error(), tt.reason)
			assert.NotNil(t, res.Data)
			assert.Empty(t, res.Data)
			assert.Equal(t, 1, calls, "no retries")
		})
	}
}

func TestFetchSuccessWithoutData(t *testing.T) {
	calls := 0
	srv := newServer(t, http.StatusOK, `{"success":true}`, &calls)

	res := NewClient(srv.URL, "").Fetch(context.Background())
	assert.False(t, res.Degraded())
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
}

func TestFetchTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	ds := NewClient(url, "").FetchPriceDataset(context.Background())
	assert.NotNil(t, ds)
	assert.Empty(t, ds)
}

func TestFetchNoEndpoint(t *testing.T) {
	res := NewClient("", "").Fetch(context.Background())
	assert.ErrorIs(t, res.Err, ErrNoEndpoint)
	assert.Empty(t, res.Data)
}

func TestFetchSendsAPIKey(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"success":true,"data":{}}`))
	}))
	defer srv.Close()

	res := NewClient(srv.URL, "secret").Fetch(context.Background())
	require.NoError(t, res.Err)
	assert.Equal(t, "Bearer secret", auth)
}

func TestFetchTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	client := NewClient(srv.URL, "")
	client.HTTPClient.Timeout = 50 * time.Millisecond

	res := client.Fetch(context.Background())
	assert.True(t, res.Degraded())
	assert.Empty(t, res.Data)
}
