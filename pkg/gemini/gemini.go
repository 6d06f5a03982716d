// Package gemini is the generative-language client used for taste analysis.
// Callers validate the returned text themselves.
package gemini

import (
	"context"
	"fmt"
	"movie_curator/model"
	"movie_curator/pkg/fetch"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

type Client struct {
	baseUrl string
	apiKey  string
	model   string
	fetch   *fetch.Client
}

func NewClient(baseUrl string, apiKey string, modelName string, timeout time.Duration) *Client {
	return &Client{
		baseUrl: strings.TrimRight(baseUrl, "/"),
		apiKey:  apiKey,
		model:   modelName,
		fetch:   fetch.NewClient("gemini", timeout),
	}
}

//------------------------------------------
//------------------------------------------

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

//------------------------------------------
//------------------------------------------

// Generate sends one prompt and returns the text of the first candidate.
func (c *Client) Generate(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	if c.apiKey == "" {
		return "", model.ErrGeminiKeyMissing
	}

	payload := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}
	if jsonMode {
		payload.GenerationConfig = &generationConfig{ResponseMimeType: "application/json"}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	requestUrl := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseUrl, c.model, url.QueryEscape(c.apiKey))
	resp, err := c.fetch.PostJSON(ctx, requestUrl, body)
	if err != nil {
		return "", model.NewTransportError(model.MsgCuratorBusy, err)
	}
	if resp.StatusCode != 200 {
		return "", model.NewTransportError(model.MsgCuratorBusy, fmt.Errorf("API error: %d", resp.StatusCode))
	}

	var data generateResponse
	if err = json.Unmarshal(resp.Body, &data); err != nil {
		return "", model.NewSchemaError(model.MsgCuratorBusy, err)
	}
	if len(data.Candidates) == 0 || len(data.Candidates[0].Content.Parts) == 0 || data.Candidates[0].Content.Parts[0].Text == "" {
		return "", model.NewSchemaError(model.MsgCuratorBusy, fmt.Errorf("invalid response from API"))
	}
	return data.Candidates[0].Content.Parts[0].Text, nil
}
