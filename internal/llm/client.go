// Package llm generates resume content suggestions with a generative
// model. Suggestions are advisory text; nothing here writes to the
// document or the remote store.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonathan/resume-sync/internal/types"
)

// defaultModel is used when no model name is configured.
const defaultModel = "gemini-1.5-flash"

// Client is an abstraction over suggestion providers.
type Client interface {
	// SuggestSummary proposes professional summary candidates for the
	// document.
	SuggestSummary(ctx context.Context, doc types.ResumeDocument) ([]string, error)
	// SuggestBullets proposes work-summary bullet points for one
	// experience entry.
	SuggestBullets(ctx context.Context, exp types.Experience) ([]string, error)
	// Close releases any resources held by the client.
	Close() error
}

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a new Gemini client. An empty model falls
// back to the default.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// SuggestSummary implements Client.
func (c *GeminiClient) SuggestSummary(ctx context.Context, doc types.ResumeDocument) ([]string, error) {
	prompt := summaryPrompt(doc)
	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return splitCandidates(text), nil
}

// SuggestBullets implements Client.
func (c *GeminiClient) SuggestBullets(ctx context.Context, exp types.Experience) ([]string, error) {
	prompt := bulletsPrompt(exp)
	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return splitCandidates(text), nil
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.7)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return extractTextFromResponse(resp)
}

func summaryPrompt(doc types.ResumeDocument) string {
	var b strings.Builder
	b.WriteString("Write 3 professional resume summary options, 2-3 sentences each, separated by blank lines. Plain text only.\n")
	if doc.Personal.JobTitle != "" {
		fmt.Fprintf(&b, "Job title: %s\n", doc.Personal.JobTitle)
	}
	if len(doc.Skills) > 0 {
		names := make([]string, len(doc.Skills))
		for i, skill := range doc.Skills {
			names[i] = skill.Name
		}
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(names, ", "))
	}
	if len(doc.Experience) > 0 {
		exp := doc.Experience[0]
		fmt.Fprintf(&b, "Most recent role: %s at %s\n", exp.Title, exp.CompanyName)
	}
	if doc.Summary != "" {
		fmt.Fprintf(&b, "Current summary to improve: %s\n", doc.Summary)
	}
	return b.String()
}

func bulletsPrompt(exp types.Experience) string {
	var b strings.Builder
	b.WriteString("Write 4 concise resume bullet points for this role, one per line, each starting with a strong verb. Plain text only.\n")
	fmt.Fprintf(&b, "Role: %s at %s\n", exp.Title, exp.CompanyName)
	if exp.WorkSummary != "" {
		fmt.Fprintf(&b, "Current description: %s\n", exp.WorkSummary)
	}
	return b.String()
}

// splitCandidates breaks model output into candidates on blank lines.
// Single-line outputs split per line.
func splitCandidates(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	sep := "\n\n"
	if !strings.Contains(text, sep) {
		sep = "\n"
	}
	var out []string
	for _, part := range strings.Split(text, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// extractTextFromResponse extracts text from a Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
