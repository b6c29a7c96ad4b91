package assist

import (
	"bytes"
	"collab-hub/errors"
	"collab-hub/mocks"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestServer(t *testing.T, completer *mocks.MockCompleter) *httptest.Server {
	router := httprouter.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	NewHandler(log, completer, "gpt-4o", []string{"gpt-4o-mini"}).Register(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestHandler_ThroughClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)
	srv := newTestServer(t, completer)
	client := NewClient(srv.URL, "openai/gpt-4o-mini", time.Second)
	ctx := context.Background()

	tests := []struct {
		name   string
		prompt string
		call   func() (string, error)
	}{
		{
			name:   "Generate code",
			prompt: "Context: go\n\nTask: add\n\nGenerate code for this task:",
			call:   func() (string, error) { return client.GenerateCode(ctx, "go", "add") },
		},
		{
			name:   "Debug assist",
			prompt: "Error message: nil map\n\nCode snippet:\nm[k] = v\n\nExplain this error and suggest a fix:",
			call:   func() (string, error) { return client.ExplainError(ctx, "nil map", "m[k] = v") },
		},
		{
			name:   "Question",
			prompt: "Context: chan\n\nQuestion: buffered?\n\nAnswer:",
			call:   func() (string, error) { return client.Answer(ctx, "buffered?", "chan") },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			// Given the completer answers for the requested model without its prefix
			completer.EXPECT().Complete(gomock.Any(), "gpt-4o-mini", tt.prompt).Return("done", nil)

			// When the client calls the endpoint
			out, err := tt.call()

			// Then the completion comes back in the endpoint's field
			req.NoError(err)
			req.Equal("done", out)
		})
	}
}

func TestHandler_RefactorAndRecommend(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)
	srv := newTestServer(t, completer)
	client := NewClient(srv.URL, "", time.Second)

	completer.EXPECT().
		Complete(gomock.Any(), "gpt-4o", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, prompt string) (string, error) {
			if strings.Contains(prompt, "beginner") {
				return "Tour of Go", nil
			}
			return "rename x", nil
		}).
		Times(2)

	suggestions, err := client.Refactor(context.Background(), "x:=1")
	req.NoError(err)
	req.Equal("rename x", suggestions)

	resources, err := client.Recommend(context.Background(), "generics", "", "beginner")
	req.NoError(err)
	req.Equal("Tour of Go", resources)
}

func TestHandler_Rejections(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)
	srv := newTestServer(t, completer)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"Invalid JSON", QAPath, `{`},
		{"Missing required field", GenerateCodePath, `{"context":"go"}`},
		{"Unknown user level", RecommendationsPath, `{"topic":"go","user_level":"guru"}`},
		{"Unknown model", QAPath, `{"question":"q","model":"openai/other"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			resp, err := http.Post(srv.URL+tt.path, "application/json", bytes.NewBufferString(tt.body))
			req.NoError(err)
			defer resp.Body.Close()
			req.Equal(http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestHandler_CompleterFailure(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "upstream rate limit passes through", err: &errors.ServerError{Status: http.StatusTooManyRequests, Body: "slow down"}, status: http.StatusTooManyRequests},
		{name: "upstream 5xx is a bad gateway", err: &errors.ServerError{Status: http.StatusServiceUnavailable}, status: http.StatusBadGateway},
		{name: "upstream timeout", err: fmt.Errorf("completion: %w", context.DeadlineExceeded), status: http.StatusGatewayTimeout},
		{name: "network failure", err: errors.ErrNetwork, status: http.StatusBadGateway},
		{name: "malformed upstream answer", err: errors.ErrMalformedResponse, status: http.StatusBadGateway},
		{name: "anything else", err: io.ErrUnexpectedEOF, status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			ctrl := gomock.NewController(t)
			completer := mocks.NewMockCompleter(ctrl)
			srv := newTestServer(t, completer)

			// Given the upstream model fails
			completer.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return("", tt.err)

			// When asked through the client
			_, err := NewClient(srv.URL, "", time.Second).Answer(context.Background(), "q", "")

			// Then the client surfaces the mapped status
			var serverErr *errors.ServerError
			req.ErrorAs(err, &serverErr)
			req.Equal(tt.status, serverErr.Status)
		})
	}
}

func TestHandler_Models(t *testing.T) {
	req := require.New(t)
	srv := newTestServer(t, mocks.NewMockCompleter(gomock.NewController(t)))

	resp, err := http.Get(srv.URL + ModelsPath)
	req.NoError(err)
	defer resp.Body.Close()

	var models []Model
	req.NoError(json.NewDecoder(resp.Body).Decode(&models))
	req.Equal([]Model{
		{ID: "openai/gpt-4o", Name: "gpt-4o"},
		{ID: "openai/gpt-4o-mini", Name: "gpt-4o-mini"},
	}, models)
}
