package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"
)

// Config selects the model and the backend. With an API key the client
// talks to the Gemini API directly, otherwise it goes through Vertex AI
// in the configured project and location.
type Config struct {
	Model    string
	Project  string
	Location string
	APIKey   string
}

// Client wraps the genai SDK with the generation settings the console
// uses for every call and a retry on transient API errors.
type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, config Config) (*Client, error) {
	clientConfig := &genai.ClientConfig{}
	if config.APIKey != "" {
		clientConfig.APIKey = config.APIKey
	} else {
		clientConfig.Project = config.Project
		clientConfig.Location = config.Location
		clientConfig.Backend = genai.BackendVertexAI
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("cannot create genai client: %s", err)
	}

	return &Client{
		client: client,
		model:  config.Model,
	}, nil
}

// Result is the model turn the agent works with: the text parts merged,
// plus any function calls the model requested.
type Result struct {
	Parts []*genai.Part
}

func (r *Result) Text() string {
	var text strings.Builder
	for _, part := range r.Parts {
		text.WriteString(part.Text)
	}
	return text.String()
}

func (r *Result) FunctionCalls() []*genai.FunctionCall {
	var calls []*genai.FunctionCall
	for _, part := range r.Parts {
		if part.FunctionCall != nil {
			calls = append(calls, part.FunctionCall)
		}
	}
	return calls
}

func (c *Client) Generate(
	ctx context.Context,
	system string,
	history []*genai.Content,
	tools []*genai.FunctionDeclaration,
) (*Result, error) {
	config := c.generateConfig(system, tools)

	var resp *genai.GenerateContentResponse
	err := backoff.Retry(func() error {
		r, err := c.client.Models.GenerateContent(ctx, c.model, history, config)
		if err != nil {
			return err
		}
		resp = r
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx))
	if err != nil {
		return nil, fmt.Errorf("cannot generate content: %s", err)
	}

	return resultFrom(resp), nil
}

// GenerateStream runs one streamed model call. Text chunks are handed to
// onDelta as they arrive, the returned result carries the merged turn.
func (c *Client) GenerateStream(
	ctx context.Context,
	system string,
	history []*genai.Content,
	tools []*genai.FunctionDeclaration,
	onDelta func(text string),
) (*Result, error) {
	config := c.generateConfig(system, tools)

	result := &Result{}
	var text strings.Builder
	for resp, err := range c.client.Models.GenerateContentStream(ctx, c.model, history, config) {
		if err != nil {
			return nil, fmt.Errorf("cannot stream content: %s", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			continue
		}
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
				if onDelta != nil {
					onDelta(part.Text)
				}
			}
			if part.FunctionCall != nil {
				result.Parts = append(result.Parts, part)
			}
		}
	}

	if text.Len() > 0 {
		result.Parts = append([]*genai.Part{{Text: text.String()}}, result.Parts...)
	}

	return result, nil
}

func (c *Client) generateConfig(system string, tools []*genai.FunctionDeclaration) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(0)),
		MaxOutputTokens: 8192,
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if len(tools) > 0 {
		config.Tools = []*genai.Tool{
			{FunctionDeclarations: tools},
		}
	}
	return config
}

func resultFrom(resp *genai.GenerateContentResponse) *Result {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return &Result{}
	}
	return &Result{Parts: resp.Candidates[0].Content.Parts}
}
