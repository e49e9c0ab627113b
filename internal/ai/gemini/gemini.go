package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vennparty/backend/internal/game"
)

const defaultModel = "gemini-3-flash-preview"

type Client struct {
	APIKey  string
	BaseURL string
	Model   string
	http    *http.Client
}

func New(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		http:    &http.Client{Timeout: 20 * time.Second},
	}
}

// BridgeSubmission asks for a short phrase connecting the two images,
// played on behalf of a simulated player.
func (c *Client) BridgeSubmission(ctx context.Context, a, b game.ImageItem) (string, error) {
	prompt := fmt.Sprintf(`Find a clever creative intersection between these two images:
Image 1: %s
Image 2: %s

Provide a single witty phrase (max 10 words) that describes what's in the middle.`, a.Title, b.Title)

	text, err := c.generate(ctx, prompt, false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// IntersectionLabel asks for a catchy label for the overlap of the two
// images and a clustering of the player submissions.
func (c *Client) IntersectionLabel(ctx context.Context, a, b game.ImageItem, subs []game.Submission) (game.LabelResult, error) {
	var lines strings.Builder
	for _, s := range subs {
		fmt.Fprintf(&lines, "- [%s] %s\n", s.PlayerID, s.Content)
	}
	prompt := fmt.Sprintf(`Two images are shown in a Venn diagram.
Image 1: %s (%s)
Image 2: %s (%s)

Players have submitted these creative intersections:
%s
Tasks:
1. Determine a concise, clever, and catchy label for the "intersection" of these two images.
2. Group the player submissions into 2-3 clusters of similar ideas, keyed by a short cluster name, listing the player ids in brackets.

Reply with JSON only: {"intersectionLabel": string, "clusters": {string: [string]}}`,
		a.Title, strings.Join(a.Tags, ", "), b.Title, strings.Join(b.Tags, ", "), lines.String())

	text, err := c.generate(ctx, prompt, true)
	if err != nil {
		return game.LabelResult{}, err
	}
	var out struct {
		IntersectionLabel string              `json:"intersectionLabel"`
		Clusters          map[string][]string `json:"clusters"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return game.LabelResult{}, fmt.Errorf("unparseable label response: %w", err)
	}
	if out.IntersectionLabel == "" {
		return game.LabelResult{}, errors.New("empty label")
	}
	return game.LabelResult{Label: out.IntersectionLabel, Clusters: out.Clusters}, nil
}

// ModeratorVerdict asks the model to judge all submissions of a round.
func (c *Client) ModeratorVerdict(ctx context.Context, a, b game.ImageItem, subs []game.Submission, tone game.ModeratorTone) (game.Verdict, error) {
	voice := "a playful game-show host; keep it light and funny"
	if tone == game.ToneSerious {
		voice = "a thoughtful art critic; stay measured and sincere"
	}
	var lines strings.Builder
	for _, s := range subs {
		fmt.Fprintf(&lines, "- [%s] %s\n", s.PlayerID, s.Content)
	}
	prompt := fmt.Sprintf(`You moderate a party game. Two images:
Image 1: %s (%s)
Image 2: %s (%s)

Players bridged them with these submissions:
%s
Judge every submission as %s. Score each player 0-10 for creativity and fit, pick a winner, and explain briefly.

Reply with JSON only: {"scores": {playerId: number}, "reasoning": string, "winnerId": string}`,
		a.Title, strings.Join(a.Tags, ", "), b.Title, strings.Join(b.Tags, ", "), lines.String(), voice)

	text, err := c.generate(ctx, prompt, true)
	if err != nil {
		return game.Verdict{}, err
	}
	var out game.Verdict
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return game.Verdict{}, fmt.Errorf("unparseable verdict response: %w", err)
	}
	if len(out.Scores) == 0 {
		return game.Verdict{}, errors.New("verdict without scores")
	}
	return out, nil
}

func (c *Client) generate(ctx context.Context, prompt string, wantJSON bool) (string, error) {
	if c.APIKey == "" {
		return "", errors.New("missing GEMINI_API_KEY")
	}
	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}
	if wantJSON {
		payload["generationConfig"] = map[string]any{"responseMimeType": "application/json"}
	}
	b, _ := json.Marshal(payload)
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.BaseURL, c.Model)
	req, _ := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("gemini status %d", resp.StatusCode)
	}
	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no candidates")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
