package assist

import (
	"collab-hub/contract"
	"collab-hub/errors"
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"github.com/samber/lo"
)

const (
	maxRequestBody = 1 << 20
	providerPrefix = "openai/"
)

var validate = validator.New()

// Handler exposes the completion endpoints. It keeps no state between requests.
type Handler struct {
	log          *slog.Logger
	completer    contract.Completer
	defaultModel string
	models       []string
}

// NewHandler serves completions from completer. models is the allow list
// advertised on /api/models, defaultModel is used when a request names none.
func NewHandler(log *slog.Logger, completer contract.Completer, defaultModel string, models []string) *Handler {
	return &Handler{
		log:          log,
		completer:    completer,
		defaultModel: defaultModel,
		models:       lo.Uniq(append([]string{defaultModel}, models...)),
	}
}

func (h *Handler) Register(router *httprouter.Router) {
	router.POST(GenerateCodePath, h.handleGenerateCode)
	router.POST(RefactorPath, h.handleRefactor)
	router.POST(RecommendationsPath, h.handleRecommendations)
	router.POST(DebugAssistPath, h.handleDebugAssist)
	router.POST(QAPath, h.handleQA)
	router.GET(ModelsPath, h.handleModels)
}

func (h *Handler) handleGenerateCode(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req GenerateCodeRequest
	if !decode(w, r, &req) {
		return
	}
	h.complete(w, r, req.Model, generateCodePrompt(req.Context, req.Prompt), generatedCodeField)
}

func (h *Handler) handleRefactor(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req RefactorRequest
	if !decode(w, r, &req) {
		return
	}
	h.complete(w, r, req.Model, refactorPrompt(req.CodeSnippet), refactoringField)
}

func (h *Handler) handleRecommendations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req RecommendationsRequest
	if !decode(w, r, &req) {
		return
	}
	h.complete(w, r, req.Model, recommendationsPrompt(req.Topic, req.CodeContext, req.UserLevel), recommendationsField)
}

func (h *Handler) handleDebugAssist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req DebugAssistRequest
	if !decode(w, r, &req) {
		return
	}
	h.complete(w, r, req.Model, debugPrompt(req.ErrorMessage, req.CodeSnippet), explanationField)
}

func (h *Handler) handleQA(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req QARequest
	if !decode(w, r, &req) {
		return
	}
	h.complete(w, r, req.Model, qaPrompt(req.Question, req.Context), answerField)
}

func (h *Handler) handleModels(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, lo.Map(h.models, func(id string, _ int) Model {
		return Model{ID: providerPrefix + id, Name: id}
	}))
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request, requested, prompt, field string) {
	model, ok := h.resolveModel(requested)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown model "+requested)
		return
	}
	text, err := h.completer.Complete(r.Context(), model, prompt)
	if err != nil {
		h.log.Error("Completion failed", "model", model, "path", r.URL.Path, "error", err)
		writeError(w, completionStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{field: text})
}

// completionStatus maps a completer failure to the status returned to the editor.
// Upstream 4xx answers (rate limits, rejected prompts) pass through, anything
// else the upstream got wrong is a bad gateway.
func completionStatus(err error) int {
	var serverErr *errors.ServerError
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.As(err, &serverErr):
		if serverErr.Status >= 400 && serverErr.Status < 500 {
			return serverErr.Status
		}
		return http.StatusBadGateway
	case stderrors.Is(err, errors.ErrNetwork), stderrors.Is(err, errors.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// resolveModel accepts ids with or without the provider prefix used by editor clients.
func (h *Handler) resolveModel(requested string) (string, bool) {
	model := strings.TrimPrefix(strings.TrimSpace(requested), providerPrefix)
	if model == "" {
		return h.defaultModel, true
	}
	return model, lo.Contains(h.models, model)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
