package factcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const factCheckInstruction = `You are a fact-checking assistant. Judge whether the user's claim is accurate.
Reply with a JSON object only, shaped as
{"fact_check_result": "true" or "false", "explanation": "<one paragraph>", "sources": ["<reference>", ...]}.`

// ContentGenerator is the part of the genai client used here; *genai.Models
// satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var _ Collaborator = (*GenAIClient)(nil)

// GenAIClient asks a Gemini model for the verdict directly.
type GenAIClient struct {
	models ContentGenerator
	model  string
}

func NewGenAIClient(models ContentGenerator, model string) *GenAIClient {
	return &GenAIClient{models: models, model: model}
}

// DialGenAI creates a Gemini API client for apiKey.
func DialGenAI(ctx context.Context, apiKey, model string) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("GenAI API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return NewGenAIClient(client.Models, model), nil
}

// FactCheck returns the response in its JSON wire shape, so the model's text
// sits at candidates[0].content.parts[0].text.
func (g *GenAIClient) FactCheck(ctx context.Context, claim string) (any, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(claim, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(factCheckInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"fact_check_result": {Type: genai.TypeString, Enum: []string{"true", "false"}},
				"explanation":       {Type: genai.TypeString},
				"sources":           {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			},
			Required: []string{"fact_check_result", "explanation"},
		},
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, Classify(err)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode genai response: %w", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var reply any
	if err := decoder.Decode(&reply); err != nil {
		return nil, fmt.Errorf("decode genai response: %w", err)
	}
	return reply, nil
}
