package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/crumbapp/crumb-api/internal/config"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIExtractionProvider implements ExtractionProvider using an OpenAI
// chat completion in JSON mode. Used as the fallback when the primary
// extraction provider is unavailable.
type OpenAIExtractionProvider struct {
	client  *openai.Client
	model   string
	prompts *config.Prompts
}

// NewOpenAIExtractionProvider creates the fallback extraction provider.
func NewOpenAIExtractionProvider(apiKey string, prompts *config.Prompts) *OpenAIExtractionProvider {
	return &OpenAIExtractionProvider{
		client:  openai.NewClient(apiKey),
		model:   openai.GPT4oMini,
		prompts: prompts,
	}
}

// ExtractRecipe extracts a structured recipe from page content.
func (p *OpenAIExtractionProvider) ExtractRecipe(ctx context.Context, content string, sourceURL string) (*RecipeData, error) {
	sysPrompt, err := config.RenderPrompt(p.prompts.Extract.URL.System, map[string]interface{}{
		"SourceURL": sourceURL,
	})
	if err != nil {
		return nil, fmt.Errorf("render system prompt: %w", err)
	}

	// The JSON keys requested here match extractToolResult so both extraction
	// providers share one parse path.
	sysPrompt += "\n\nRespond with a single JSON object using the keys: title, " +
		"ingredients (array of {original_text, name, amount, unit}), instructions " +
		"(array of strings), ready_in_minutes, servings, vegetarian, vegan, " +
		"gluten_free, dairy_free."

	userPrompt, err := config.RenderPrompt(p.prompts.Extract.URL.User, map[string]interface{}{
		"Content": content,
	})
	if err != nil {
		return nil, fmt.Errorf("render user prompt: %w", err)
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sysPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	var tr extractToolResult
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &tr); err != nil {
		return nil, fmt.Errorf("failed to parse extraction result: %w", err)
	}

	return toolResultToRecipeData(&tr, sourceURL), nil
}
