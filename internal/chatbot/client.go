package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// GenClient calls a generative-text API (Gemini-style request/response).
type GenClient struct {
	HTTP   *http.Client
	URL    string
	APIKey string
}

func NewGenClient(url, apiKey string) *GenClient {
	return &GenClient{
		HTTP:   &http.Client{Timeout: 10 * time.Second},
		URL:    url,
		APIKey: apiKey,
	}
}

type genRequest struct {
	Contents []genContent `json:"contents"`
}

type genContent struct {
	Parts []genPart `json:"parts"`
}

type genPart struct {
	Text string `json:"text"`
}

type genResponse struct {
	Candidates []struct {
		Content genContent `json:"content"`
	} `json:"candidates"`
}

func (c *GenClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(genRequest{
		Contents: []genContent{{Parts: []genPart{{Text: prompt}}}},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s?key=%s", c.URL, c.APIKey), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generative API status %s", res.Status)
	}
	var out genResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generative API returned no candidates")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
