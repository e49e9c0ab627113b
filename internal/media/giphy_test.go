package media

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "confetti", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"data":[
			{"id":"g1","title":"party","images":{"original":{"url":"https://gif/1.gif"}}},
			{"id":"g2","title":"more party","images":{"original":{"url":"https://gif/2.gif"}}}
		]}`)
	}))
	defer srv.Close()

	c := NewGiphyClient("test-key", srv.URL)
	gifs, err := c.Search(context.Background(), "confetti")
	require.NoError(t, err)
	require.Len(t, gifs, 2)
	assert.Equal(t, "g1", gifs[0].ID)
	assert.Equal(t, "https://gif/2.gif", gifs[1].URL)
}

func TestSearchCapsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[`)
		for i := 0; i < 25; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"id":"g%d","title":"t","images":{"original":{"url":"u"}}}`, i)
		}
		fmt.Fprint(w, `]}`)
	}))
	defer srv.Close()

	c := NewGiphyClient("test-key", srv.URL)
	gifs, err := c.Search(context.Background(), "cats")
	require.NoError(t, err)
	assert.Len(t, gifs, 10)
}

func TestSearchMissingKey(t *testing.T) {
	c := NewGiphyClient("", "http://unused")
	_, err := c.Search(context.Background(), "anything")
	assert.Error(t, err)
}

func TestSearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewGiphyClient("test-key", srv.URL)
	_, err := c.Search(context.Background(), "anything")
	assert.Error(t, err)
}
