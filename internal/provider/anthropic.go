package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/crumbapp/crumb-api/internal/config"
	"github.com/crumbapp/crumb-api/internal/logger"
	"go.uber.org/zap"
)

// AnthropicExtractionProvider implements ExtractionProvider using Claude
// tool-use to pull a structured recipe out of page content.
type AnthropicExtractionProvider struct {
	client  anthropic.Client
	model   anthropic.Model
	prompts *config.Prompts
}

// NewAnthropicExtractionProvider creates an extraction provider with the given
// API key and prompt configuration.
func NewAnthropicExtractionProvider(apiKey string, prompts *config.Prompts) *AnthropicExtractionProvider {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicExtractionProvider{
		client:  client,
		model:   anthropic.ModelClaude3_5Sonnet20241022,
		prompts: prompts,
	}
}

// extractRecipeTool builds the Claude tool definition for recipe extraction.
func extractRecipeTool() anthropic.ToolUnionParam {
	return anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        "extract_recipe",
			Description: anthropic.String("Extract the structured recipe from the provided page content."),
			InputSchema: anthropic.ToolInputSchemaParam{
				Type: "object",
				Properties: map[string]interface{}{
					"title": map[string]interface{}{
						"type":        "string",
						"description": "Title of the recipe",
					},
					"ingredients": map[string]interface{}{
						"type":        "array",
						"description": "Ingredients in the order they appear",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"original_text": map[string]interface{}{"type": "string", "description": "The ingredient line exactly as written on the page"},
								"name":          map[string]interface{}{"type": "string", "description": "Ingredient name only, no amount or unit"},
								"amount":        map[string]interface{}{"type": "number"},
								"unit":          map[string]interface{}{"type": "string"},
							},
						},
					},
					"instructions": map[string]interface{}{
						"type":        "array",
						"description": "Preparation steps in order, without numbering",
						"items":       map[string]interface{}{"type": "string"},
					},
					"ready_in_minutes": map[string]interface{}{
						"type":        "number",
						"description": "Total preparation and cooking time in minutes",
					},
					"servings": map[string]interface{}{
						"type":        "number",
						"description": "Number of servings the recipe makes",
					},
					"vegetarian":  map[string]interface{}{"type": "boolean"},
					"vegan":       map[string]interface{}{"type": "boolean"},
					"gluten_free": map[string]interface{}{"type": "boolean"},
					"dairy_free":  map[string]interface{}{"type": "boolean"},
				},
			},
		},
	}
}

// extractToolResult is the JSON structure returned by the extract_recipe tool call.
type extractToolResult struct {
	Title          string                `json:"title"`
	Ingredients    []ingredientToolEntry `json:"ingredients"`
	Instructions   []string              `json:"instructions"`
	ReadyInMinutes int                   `json:"ready_in_minutes"`
	Servings       int                   `json:"servings"`
	Vegetarian     bool                  `json:"vegetarian"`
	Vegan          bool                  `json:"vegan"`
	GlutenFree     bool                  `json:"gluten_free"`
	DairyFree      bool                  `json:"dairy_free"`
}

type ingredientToolEntry struct {
	OriginalText string  `json:"original_text"`
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	Unit         string  `json:"unit"`
}

// toolResultToRecipeData converts a tool result into the provider-neutral shape.
// The caller assigns the recipe ID and source URL.
func toolResultToRecipeData(tr *extractToolResult, sourceURL string) *RecipeData {
	ingredients := make([]IngredientData, len(tr.Ingredients))
	for i, ing := range tr.Ingredients {
		ingredients[i] = IngredientData{
			OriginalText: ing.OriginalText,
			Name:         ing.Name,
			Amount:       ing.Amount,
			Unit:         ing.Unit,
		}
	}
	steps := make([]StepData, len(tr.Instructions))
	for i, s := range tr.Instructions {
		steps[i] = StepData{Number: i + 1, Text: s}
	}
	return &RecipeData{
		Title:          tr.Title,
		Ingredients:    ingredients,
		Instructions:   steps,
		ReadyInMinutes: tr.ReadyInMinutes,
		Servings:       tr.Servings,
		Vegetarian:     tr.Vegetarian,
		Vegan:          tr.Vegan,
		GlutenFree:     tr.GlutenFree,
		DairyFree:      tr.DairyFree,
		SourceURL:      sourceURL,
	}
}

// ExtractRecipe extracts a structured recipe from page content.
func (p *AnthropicExtractionProvider) ExtractRecipe(ctx context.Context, content string, sourceURL string) (*RecipeData, error) {
	sysPrompt, err := config.RenderPrompt(p.prompts.Extract.URL.System, map[string]interface{}{
		"SourceURL": sourceURL,
	})
	if err != nil {
		return nil, fmt.Errorf("render system prompt: %w", err)
	}

	userPrompt, err := config.RenderPrompt(p.prompts.Extract.URL.User, map[string]interface{}{
		"Content": content,
	})
	if err != nil {
		return nil, fmt.Errorf("render user prompt: %w", err)
	}

	params := anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: sysPrompt},
		},
		Messages: []anthropic.MessageParam{
			{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewTextBlock(userPrompt),
				},
			},
		},
		Tools: []anthropic.ToolUnionParam{extractRecipeTool()},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfToolChoiceTool: &anthropic.ToolChoiceToolParam{
				Name: "extract_recipe",
			},
		},
	}

	resp, err := p.createMessageWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	return extractRecipeFromToolUse(resp, sourceURL)
}

// createMessageWithRetry wraps the Claude API call with exponential backoff.
func (p *AnthropicExtractionProvider) createMessageWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	const maxRetries = 3
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		resp, err := p.client.Messages.New(ctx, params)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		shouldRetry, waitTime := classifyAnthropicError(err)
		if !shouldRetry {
			return nil, fmt.Errorf("claude API error: %w", err)
		}

		logger.Get().Warn("claude API error, retrying",
			zap.Error(err),
			zap.Int("attempt", i+1),
		)

		backoff := waitTime * time.Duration(i+1)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("claude API: exhausted %d retries: %w", maxRetries, lastErr)
}

// classifyAnthropicError determines whether to retry and the base wait duration.
func classifyAnthropicError(err error) (shouldRetry bool, waitTime time.Duration) {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return true, 2 * time.Second
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
			return true, 2 * time.Second
		default:
			return false, 0
		}
	}
	return false, 0
}

// extractRecipeFromToolUse parses the tool-use content block returned by Claude.
func extractRecipeFromToolUse(msg *anthropic.Message, sourceURL string) (*RecipeData, error) {
	for _, block := range msg.Content {
		if block.Type == "tool_use" {
			raw, err := json.Marshal(block.Input)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal tool input: %w", err)
			}
			var tr extractToolResult
			if err := json.Unmarshal(raw, &tr); err != nil {
				return nil, fmt.Errorf("failed to parse extraction tool result: %w", err)
			}
			return toolResultToRecipeData(&tr, sourceURL), nil
		}
	}
	return nil, errors.New("no tool_use block in claude response")
}
