package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	defaultVisionModel = "gemini-2.5-flash"
	defaultImageModel  = "gemini-2.0-flash-preview-image-generation"
)

const visionPrompt = `Analyze this image. First decide whether it shows a financial record
(a receipt, a bank or card transaction list, an account book). Respond with ONLY a valid
JSON object, no markdown fences and no commentary, of the shape:
{"isFinancial": bool, "transactions": [{"item": string, "amount": number, "category": string}]}
When the image is not a financial record, return {"isFinancial": false, "transactions": []}.
Amounts are positive numbers. The category is your best short guess, for example one of
식비, 주거, 교통비, 쇼핑, 문화/여가, 생활비.`

// GeminiClient talks to the Gemini HTTP API.
type GeminiClient struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	visionModel string
	imageModel  string
}

var _ Client = (*GeminiClient)(nil)

// Config holds Gemini client settings.
type Config struct {
	APIKey      string
	BaseURL     string
	VisionModel string
	ImageModel  string
}

// NewGeminiClient creates a Gemini API client.
func NewGeminiClient(cfg Config) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	visionModel := cfg.VisionModel
	if visionModel == "" {
		visionModel = defaultVisionModel
	}
	imageModel := cfg.ImageModel
	if imageModel == "" {
		imageModel = defaultImageModel
	}

	return &GeminiClient{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		visionModel: visionModel,
		imageModel:  imageModel,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text       string `json:"text"`
				InlineData *struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// AnalyzeTransactionImage asks the vision model to extract spending records
// from an image.
func (c *GeminiClient) AnalyzeTransactionImage(ctx context.Context, image []byte, mimeType string) (VisionAnalysis, error) {
	requestBody := map[string]any{
		"contents": []map[string]any{{
			"parts": []map[string]any{
				{"text": visionPrompt},
				{"inlineData": map[string]string{
					"mimeType": mimeType,
					"data":     base64.StdEncoding.EncodeToString(image),
				}},
			},
		}},
		"generationConfig": map[string]any{
			"responseMimeType": "application/json",
		},
	}

	var response geminiResponse
	if err := c.post(ctx, c.visionModel, requestBody, &response); err != nil {
		return VisionAnalysis{}, err
	}

	text := firstText(response)
	if text == "" {
		return VisionAnalysis{}, fmt.Errorf("empty vision response")
	}

	var analysis VisionAnalysis
	if err := json.Unmarshal([]byte(cleanMarkdownWrapper(text)), &analysis); err != nil {
		return VisionAnalysis{}, fmt.Errorf("parse vision response: %w", err)
	}
	return analysis, nil
}

// GenerateIcon renders a persona icon image for the given concept.
func (c *GeminiClient) GenerateIcon(ctx context.Context, prompt string) ([]byte, error) {
	requestBody := map[string]any{
		"contents": []map[string]any{{
			"parts": []map[string]any{
				{"text": "Minimal flat app icon, single subject, plain background: " + prompt},
			},
		}},
		"generationConfig": map[string]any{
			"responseModalities": []string{"IMAGE"},
		},
	}

	var response geminiResponse
	if err := c.post(ctx, c.imageModel, requestBody, &response); err != nil {
		return nil, err
	}

	for _, cand := range response.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				img, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
				if err != nil {
					return nil, fmt.Errorf("decode icon data: %w", err)
				}
				return img, nil
			}
		}
	}
	return nil, fmt.Errorf("no image in generation response")
}

func (c *GeminiClient) post(ctx context.Context, model string, requestBody any, out any) error {
	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func firstText(resp geminiResponse) string {
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}

// cleanMarkdownWrapper strips ```json fences some models wrap around JSON
// despite instructions.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
