package geocode_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/tripintel/geocode"
	"github.com/effective-security/tripintel/pkg/errkind"
	"github.com/effective-security/tripintel/pkg/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, handler http.HandlerFunc) *geocode.Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return geocode.NewClient(server.URL,
		upstream.WithHTTPClient(server.Client()),
		upstream.WithTimeout(100*time.Millisecond),
	)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Jaipur, India", q.Get("name"))
		assert.Equal(t, "1", q.Get("count"))
		assert.Equal(t, "en", q.Get("language"))
		assert.Equal(t, "json", q.Get("format"))
		_, _ = w.Write([]byte(`{"results":[{"name":"Jaipur","admin1":"Rajasthan","country":"India","latitude":26.91962,"longitude":75.78781}]}`))
	})

	loc, err := c.Resolve(context.Background(), "Jaipur, India")
	require.NoError(t, err)
	assert.Equal(t, "Jaipur, Rajasthan, India", loc.DisplayName)
	assert.InDelta(t, 26.91962, loc.Latitude, 1e-9)
	assert.InDelta(t, 75.78781, loc.Longitude, 1e-9)
}

func TestResolve_PartialName(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"name":"Monaco","country":"Monaco","latitude":43.73,"longitude":7.42}]}`))
	})

	loc, err := c.Resolve(context.Background(), "Monaco")
	require.NoError(t, err)
	assert.Equal(t, "Monaco, Monaco", loc.DisplayName)
}

func TestResolve_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("blank", func(t *testing.T) {
		c := geocode.NewClient("")
		for _, loc := range []string{"", "   ", "\t\n"} {
			_, err := c.Resolve(ctx, loc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errkind.ErrInvalidArgument))
		}
	})

	t.Run("no results", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"generationtime_ms":0.5}`))
		})
		_, err := c.Resolve(ctx, "Atlantis")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errkind.ErrNotFound))
		assert.EqualError(t, err, `unable to geocode location "Atlantis"`)
	})

	t.Run("status", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		_, err := c.Resolve(ctx, "Jaipur")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errkind.ErrUpstream))
	})

	t.Run("timeout", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})
		_, err := c.Resolve(ctx, "Jaipur")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errkind.ErrUpstreamTimeout))
	})

	t.Run("out of range", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"results":[{"name":"Nowhere","latitude":123.4,"longitude":10}]}`))
		})
		_, err := c.Resolve(ctx, "Nowhere")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errkind.ErrUpstream))
	})

	t.Run("missing coordinates", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"results":[{"name":"Nowhere"}]}`))
		})
		_, err := c.Resolve(ctx, "Nowhere")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errkind.ErrUpstream))
	})
}

func TestDisplayName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", geocode.DisplayName())
	assert.Equal(t, "Paris", geocode.DisplayName("Paris", "", ""))
	assert.Equal(t, "Paris, France", geocode.DisplayName("Paris", "", "France"))
	assert.Equal(t, "Paris, Île-de-France, France", geocode.DisplayName("Paris", "Île-de-France", "France"))
}
