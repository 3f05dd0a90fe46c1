package upstream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/tripintel/pkg/errkind"
	"github.com/effective-security/tripintel/pkg/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "unit-test/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "Jaipur", r.URL.Query().Get("name"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := upstream.New("test",
		upstream.WithHTTPClient(server.Client()),
		upstream.WithUserAgent("unit-test/1.0"),
	)
	assert.Equal(t, "test", c.Name())
	assert.Equal(t, upstream.DefaultTimeout, c.Timeout())

	res, err := c.Get(context.Background(), server.URL, url.Values{"name": {"Jaipur"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.ContentType)
	assert.Equal(t, `{"ok":true}`, string(res.Body))

	var v struct {
		OK bool `json:"ok"`
	}
	err = c.GetJSON(context.Background(), server.URL, url.Values{"name": {"Jaipur"}}, &v)
	require.NoError(t, err)
	assert.True(t, v.OK)
}

func TestClient_Errors(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/fail", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	mux.HandleFunc("/notfound", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	mux.HandleFunc("/garbage", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := upstream.New("test",
		upstream.WithHTTPClient(server.Client()),
		upstream.WithTimeout(50*time.Millisecond),
	)
	ctx := context.Background()

	_, err := c.Get(ctx, server.URL+"/fail", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errkind.ErrUpstream))
	assert.Contains(t, err.Error(), "returned status 502: boom")

	_, err = c.Get(ctx, server.URL+"/notfound", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errkind.ErrUpstream))
	assert.False(t, errors.Is(err, errkind.ErrNotFound))

	_, err = c.Get(ctx, server.URL+"/slow", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errkind.ErrUpstreamTimeout), err.Error())
	assert.Equal(t, errkind.KindUpstreamTimeout, errkind.Kind(err))

	var v map[string]any
	err = c.GetJSON(ctx, server.URL+"/garbage", nil, &v)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errkind.ErrUpstream))

	_, err = c.Get(ctx, "http://127.0.0.1:1/closed", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errkind.ErrUpstream))
}

func TestClient_MaxBodySize(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 16)))
	}))
	defer server.Close()

	ctx := context.Background()

	c := upstream.New("test", upstream.WithHTTPClient(server.Client()), upstream.WithMaxBodySize(16))
	res, err := c.Get(ctx, server.URL, nil)
	require.NoError(t, err)
	assert.Len(t, res.Body, 16)

	c = upstream.New("test", upstream.WithHTTPClient(server.Client()), upstream.WithMaxBodySize(15))
	_, err = c.Get(ctx, server.URL, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errkind.ErrUpstream))
	assert.EqualError(t, err, "test: response exceeds 15 bytes")
}

func TestResponse_Text(t *testing.T) {
	t.Parallel()

	// "Café" in ISO-8859-1
	latin1 := []byte{'C', 'a', 'f', 0xE9}

	res := &upstream.Response{
		ContentType: "application/rss+xml; charset=ISO-8859-1",
		Body:        latin1,
	}
	bs, name, err := res.Text()
	require.NoError(t, err)
	assert.Equal(t, "Café", string(bs))
	assert.Equal(t, "windows-1252", name)

	res = &upstream.Response{
		ContentType: "application/xml; charset=UTF-8",
		Body:        []byte("Zürich"),
	}
	bs, name, err = res.Text()
	require.NoError(t, err)
	assert.Equal(t, "Zürich", string(bs))
	assert.Equal(t, "utf-8", name)
}
