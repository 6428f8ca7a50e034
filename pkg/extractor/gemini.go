package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// GeminiAPIBase is the generative language API endpoint prefix.
	GeminiAPIBase = "https://generativelanguage.googleapis.com/v1beta/models"
	// DefaultGeminiModel is used when the config names no model.
	DefaultGeminiModel = "gemini-1.5-flash"
)

// GeminiClient is a minimal REST client for the generateContent endpoint.
type GeminiClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewGeminiClient creates a Gemini API client.
func NewGeminiClient(apiKey string, timeout time.Duration) (client *GeminiClient) {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client = &GeminiClient{
		apiKey:  apiKey,
		baseURL: GeminiAPIBase,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	return client
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// errModelNotFound marks "model not found"-class failures so the caller can
// rotate to a fallback model identifier.
type errModelNotFound struct {
	model string
	msg   string
}

func (e *errModelNotFound) Error() (msg string) {
	msg = "model not found: " + e.model + ": " + e.msg
	return msg
}

// IsModelNotFound reports whether err is a "model not found"-class failure.
func IsModelNotFound(err error) (matched bool) {
	var target *errModelNotFound
	matched = errors.As(err, &target)
	return matched
}

// GenerateContent sends a single prompt to a model and returns the text of
// the first candidate.
func (c *GeminiClient) GenerateContent(ctx context.Context, model, prompt string) (responseText string, err error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	var payload []byte
	payload, err = json.Marshal(reqBody)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal request")
		return responseText, err
	}

	url := c.baseURL + "/" + model + ":generateContent?key=" + c.apiKey

	var httpReq *http.Request
	httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return responseText, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var resp *http.Response
	resp, err = c.httpClient.Do(httpReq)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return responseText, err
	}
	defer resp.Body.Close()

	var respBody []byte
	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return responseText, err
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound || strings.Contains(strings.ToLower(string(respBody)), "not found") {
			err = &errModelNotFound{model: model, msg: string(respBody)}
			return responseText, err
		}
		err = errors.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
		return responseText, err
	}

	var geminiResp geminiResponse
	err = json.Unmarshal(respBody, &geminiResp)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse Gemini response: %s", string(respBody))
		return responseText, err
	}

	if geminiResp.Error != nil {
		err = errors.Errorf("API error %d: %s", geminiResp.Error.Code, geminiResp.Error.Message)
		return responseText, err
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		err = errors.New("no content in Gemini response")
		return responseText, err
	}

	responseText = geminiResp.Candidates[0].Content.Parts[0].Text

	return responseText, err
}
