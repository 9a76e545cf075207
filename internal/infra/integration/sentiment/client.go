package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/xavierca1/messenger-reviews/internal/entity"
)

// TopK asks the classifier for every star class, 1 through 5.
const TopK = 5

// Client calls a hosted text-classification model (HuggingFace inference
// API shape) such as nlptown/bert-base-multilingual-uncased-sentiment.
type Client struct {
	http *resty.Client
	url  string
}

func NewClient(url, apiToken string, timeout time.Duration) *Client {
	h := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if apiToken != "" {
		h.SetAuthToken(apiToken)
	}
	return &Client{http: h, url: url}
}

type classifyRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters classifyParameters `json:"parameters"`
}

type classifyParameters struct {
	TopK int `json:"top_k"`
}

func (c *Client) Classify(ctx context.Context, text string) ([]entity.LabelScore, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(classifyRequest{Inputs: text, Parameters: classifyParameters{TopK: TopK}}).
		Post(c.url)
	if err != nil {
		return nil, fmt.Errorf("sentiment: classify: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("sentiment: classify: status %d: %s", resp.StatusCode(), resp.String())
	}
	return decodeScores(resp.Body())
}

// decodeScores accepts both [[{label,score}...]] (batched) and [{label,score}...].
// An empty list is a valid result with no scores.
func decodeScores(body []byte) ([]entity.LabelScore, error) {
	var batched [][]entity.LabelScore
	if err := json.Unmarshal(body, &batched); err == nil {
		if len(batched) == 0 {
			return []entity.LabelScore{}, nil
		}
		return batched[0], nil
	}

	var flat []entity.LabelScore
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("sentiment: decode response: %w", err)
	}
	return flat, nil
}
