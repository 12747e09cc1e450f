// Package restorer provides a client to the generative model that "restores" pixelated images
package restorer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const restorePrompt = `Restore this low-fidelity, pixelated image. Invent plausible, but not perfectly accurate, details to fill in the missing information. The result should look like a plausible, but slightly uncanny, high-resolution version of the original. Only return the restored image as a base64 encoded string.`

const DefaultModel = "gemini-2.0-flash"

var ErrEmptyResponse = errors.New("generative model returned no usable content")

type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type GeminiRestorer struct {
	models  *genai.Models
	model   string
	timeout time.Duration
}

func NewGeminiRestorer(ctx context.Context, cfg Config) (*GeminiRestorer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("empty Gemini API key")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiRestorer{models: client.Models, model: cfg.Model, timeout: cfg.Timeout}, nil
}

// Restore отправляет картинку и промпт в модель, возвращает base64/текст результата
func (g *GeminiRestorer) Restore(ctx context.Context, mimeType string, data []byte) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(restorePrompt),
			genai.NewPartFromBytes(data, mimeType),
		}, genai.RoleUser),
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SafetySettings: permissiveSafety(),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	return extractResult(resp)
}

func permissiveSafety() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryDangerousContent,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryHarassment,
	}

	res := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		res = append(res, &genai.SafetySetting{
			Category:  c,
			Threshold: genai.HarmBlockThresholdBlockNone,
		})
	}
	return res
}

// extractResult берет первую непустую часть первого кандидата:
// inline-картинку отдаем в base64, текст - как есть
func extractResult(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return "", ErrEmptyResponse
	}

	for _, part := range cand.Content.Parts {
		if part == nil {
			continue
		}
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return base64.StdEncoding.EncodeToString(part.InlineData.Data), nil
		}
		if text := strings.TrimSpace(part.Text); text != "" {
			return text, nil
		}
	}

	return "", ErrEmptyResponse
}
