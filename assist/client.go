// Package assist is the stateless request/response AI collaborator:
// an HTTP client for editor tooling and the server-side handlers it talks to.
package assist

import (
	"bytes"
	"collab-hub/errors"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Endpoints and the single string field each one answers with.
const (
	GenerateCodePath    = "/api/generate_code"
	RefactorPath        = "/api/refactor"
	RecommendationsPath = "/api/recommend_resources"
	DebugAssistPath     = "/api/debug_assist"
	QAPath              = "/api/qa"
	ModelsPath          = "/api/models"

	generatedCodeField   = "generated_code"
	refactoringField     = "refactoring_suggestions"
	recommendationsField = "recommendations"
	explanationField     = "explanation"
	answerField          = "answer"
)

const maxErrorBody = 512

type GenerateCodeRequest struct {
	Context string `json:"context"`
	Prompt  string `json:"prompt" validate:"required"`
	Model   string `json:"model,omitempty"`
}

type RefactorRequest struct {
	CodeSnippet string `json:"code_snippet" validate:"required"`
	Model       string `json:"model,omitempty"`
}

type RecommendationsRequest struct {
	Topic       string `json:"topic" validate:"required"`
	CodeContext string `json:"code_context"`
	UserLevel   string `json:"user_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Model       string `json:"model,omitempty"`
}

type DebugAssistRequest struct {
	ErrorMessage string `json:"error_message" validate:"required"`
	CodeSnippet  string `json:"code_snippet"`
	Model        string `json:"model,omitempty"`
}

type QARequest struct {
	Question string `json:"question" validate:"required"`
	Context  string `json:"context"`
	Model    string `json:"model,omitempty"`
}

type Model struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Client performs one POST per call and never retries: the caller decides.
// Failures are errors.ErrNetwork, *errors.ServerError or errors.ErrMalformedResponse.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewClient(baseURL, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) GenerateCode(ctx context.Context, codeContext, prompt string) (string, error) {
	return c.post(ctx, GenerateCodePath, GenerateCodeRequest{Context: codeContext, Prompt: prompt, Model: c.model}, generatedCodeField)
}

func (c *Client) Refactor(ctx context.Context, codeSnippet string) (string, error) {
	return c.post(ctx, RefactorPath, RefactorRequest{CodeSnippet: codeSnippet, Model: c.model}, refactoringField)
}

func (c *Client) Recommend(ctx context.Context, topic, codeContext, userLevel string) (string, error) {
	return c.post(ctx, RecommendationsPath, RecommendationsRequest{
		Topic:       topic,
		CodeContext: codeContext,
		UserLevel:   userLevel,
		Model:       c.model,
	}, recommendationsField)
}

func (c *Client) ExplainError(ctx context.Context, errorMessage, codeSnippet string) (string, error) {
	return c.post(ctx, DebugAssistPath, DebugAssistRequest{ErrorMessage: errorMessage, CodeSnippet: codeSnippet, Model: c.model}, explanationField)
}

func (c *Client) Answer(ctx context.Context, question, questionContext string) (string, error) {
	return c.post(ctx, QAPath, QARequest{Question: question, Context: questionContext, Model: c.model}, answerField)
}

// Models lists the models the server accepts.
func (c *Client) Models(ctx context.Context) ([]Model, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ModelsPath, nil)
	if err != nil {
		return nil, err
	}
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var models []Model
	if err := json.Unmarshal(body, &models); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrMalformedResponse, err)
	}
	return models, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, field string) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return "", err
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: invalid JSON", errors.ErrMalformedResponse)
	}
	result := gjson.GetBytes(body, field)
	if result.Type != gjson.String {
		return "", fmt.Errorf("%w: missing string field %q", errors.ErrMalformedResponse, field)
	}
	return result.String(), nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrNetwork, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &errors.ServerError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}
