package mtgtop8

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(url string, retries int) *Client {
	return NewClient(ClientOptions{
		BaseUrl:         url,
		Format:          "MO",
		Timeout:         time.Second,
		Retries:         retries,
		RequestInterval: -1,
		RetryWait:       time.Millisecond * 5,
	})
}

func TestFetchRequests(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.RequestURI())
		_, _ = w.Write([]byte("<html>" + r.URL.Path + "</html>"))
	}))
	defer server.Close()

	client := newTestClient(server.URL, -1)
	ctx := context.Background()

	page, err := client.Fetch(ctx, ArchetypeResource(985, 0))
	require.NoError(t, err)
	require.Equal(t, "<html>/archetype</html>", page)

	_, err = client.Fetch(ctx, ArchetypeResource(351, 54))
	require.NoError(t, err)

	_, err = client.Fetch(ctx, EventDeckResource("52837", "592372"))
	require.NoError(t, err)

	require.Equal(t, []string{
		"/archetype?a=985",
		"/archetype?a=351&f=MO&meta=54",
		"/event?d=592372&e=52837&f=MO",
	}, paths)
}

func TestFetchInvalidResource(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1", -1)
	_, err := client.Fetch(context.Background(), EventDeckResource("52837", ""))
	require.Error(t, err)

	var fetchErr *FetchError
	require.False(t, errors.As(err, &fetchErr))
}

func TestFetchRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 3)
	page, err := client.Fetch(context.Background(), ArchetypeResource(985, 0))
	require.NoError(t, err)
	require.Equal(t, "ok", page)
	require.EqualValues(t, 3, calls.Load())
}

func TestFetchRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 2)
	_, err := client.Fetch(context.Background(), EventDeckResource("1", "2"))

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, http.StatusBadGateway, fetchErr.Status)
	require.Equal(t, EventDeck, fetchErr.Resource.Kind)
	require.EqualValues(t, 3, calls.Load())
}

func TestFetchDoesNotRetryNotFound(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 3)
	_, err := client.Fetch(context.Background(), ArchetypeResource(1, 0))

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, http.StatusNotFound, fetchErr.Status)
	require.EqualValues(t, 1, calls.Load())
}

func TestFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	client := NewClient(ClientOptions{
		BaseUrl:         server.URL,
		Timeout:         time.Millisecond * 50,
		Retries:         1,
		RequestInterval: -1,
		RetryWait:       time.Millisecond,
	})
	_, err := client.Fetch(context.Background(), ArchetypeResource(1, 0))

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, 0, fetchErr.Status)
	require.Error(t, fetchErr.Err)
}

func TestResourceString(t *testing.T) {
	require.Equal(t, "archetype a=985", ArchetypeResource(985, 0).String())
	require.Equal(t, "archetype a=351 meta=54", ArchetypeResource(351, 54).String())
	require.Equal(t, "event e=1 d=2", EventDeckResource("1", "2").String())
}
