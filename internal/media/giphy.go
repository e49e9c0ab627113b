// Package media finds GIFs for celebration screens via the Giphy API.
package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResults = 10

type GIF struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type GiphyClient struct {
	APIKey  string
	BaseURL string
	http    *http.Client
}

func NewGiphyClient(apiKey, baseURL string) *GiphyClient {
	if baseURL == "" {
		baseURL = "https://api.giphy.com"
	}
	return &GiphyClient{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Search returns up to ten GIFs for the query. A missing API key or an
// upstream failure yields an error; callers are expected to degrade to
// an empty gallery rather than block the game.
func (c *GiphyClient) Search(ctx context.Context, query string) ([]GIF, error) {
	if c.APIKey == "" {
		return nil, errors.New("missing GIPHY_API_KEY")
	}
	q := url.Values{}
	q.Set("api_key", c.APIKey)
	q.Set("q", query)
	q.Set("limit", fmt.Sprint(maxResults))
	q.Set("rating", "pg-13")

	req, _ := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/v1/gifs/search?"+q.Encode(), nil)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("giphy status %d", resp.StatusCode)
	}

	var out struct {
		Data []struct {
			ID     string `json:"id"`
			Title  string `json:"title"`
			Images struct {
				Original struct {
					URL string `json:"url"`
				} `json:"original"`
			} `json:"images"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	gifs := make([]GIF, 0, len(out.Data))
	for _, d := range out.Data {
		if len(gifs) == maxResults {
			break
		}
		gifs = append(gifs, GIF{ID: d.ID, Title: d.Title, URL: d.Images.Original.URL})
	}
	return gifs, nil
}
