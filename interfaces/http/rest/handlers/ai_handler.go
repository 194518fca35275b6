package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"glossary-backend/infrastructure/config"
	"glossary-backend/infrastructure/openai"
	apperrors "glossary-backend/pkg/errors"
	"glossary-backend/pkg/textutil"
	"glossary-backend/pkg/utils"
)

// glossarySystemPrompt enforces the one-sentence, plain-Japanese,
// IT-terms-only policy regardless of what the caller sends.
const glossarySystemPrompt = "あなたは用語集の説明を行うアシスタントです。出力は必ず日本語の平文のみで、Markdown、箇条書き、装飾記号は使用しないでください。対象はIT用語（ソフトウェア、ハードウェア、ネットワーク、データベース、セキュリティ、クラウド、AI、プログラミング、開発運用など）に限定します。入力がIT用語でない場合は「この用語はIT用語ではないため登録できません」とだけ返してください。IT用語の場合は事実ベースで簡潔に、一言サマリの1文だけを返してください。余計な前置きや追加説明、例、箇条書き、見出しは一切出力しないでください。"

// explainSystemPrompt asks for a structured markdown explanation.
const explainSystemPrompt = "You are an AI that explains glossary terms clearly and concisely for professional documentation. Output in the requested language using markdown. Include: 1) 一言サマリ, 2) 詳細説明, 3) 例 (あれば), 4) 関連用語 (箇条書き). Keep it factual."

// termFromPrompt extracts the term from a "用語: <term>" line in the user
// prompt.
var termFromPrompt = regexp.MustCompile(`(?i)用語:\s*([^\n\r]+)`)

// AIHandler fronts the completion client. The client is injected, never
// read from module state, so tests can swap in a fake.
type AIHandler struct {
	client openai.Client
	cfg    *config.Config
	logger *zap.Logger
}

// NewAIHandler creates a new AI handler. A nil client means the
// completion backend is not configured; requests then fail fast.
func NewAIHandler(client openai.Client, cfg *config.Config, logger *zap.Logger) *AIHandler {
	return &AIHandler{client: client, cfg: cfg, logger: logger}
}

// AIRequest represents the request body for POST /api/ai-request.
type AIRequest struct {
	SystemPrompt     string   `json:"system_prompt,omitempty"`
	UserPrompt       string   `json:"user_prompt" validate:"required"`
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"top_p,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
}

// ExplainTermRequest represents the request body for POST /api/explain-term.
type ExplainTermRequest struct {
	Term     string `json:"term" validate:"required"`
	Context  string `json:"context,omitempty"`
	Language string `json:"language,omitempty"`
}

// AIResponse is the payload for both explanation endpoints.
type AIResponse struct {
	Term        string        `json:"term"`
	Explanation string        `json:"explanation"`
	Model       string        `json:"model"`
	Usage       *openai.Usage `json:"usage,omitempty"`
}

// GenerateExplanation handles POST /api/ai-request: a one-sentence plain
// summary for the glossary UI. The caller's system_prompt is ignored; the
// glossary policy prompt always wins.
func (h *AIHandler) GenerateExplanation(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	var req AIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "ValidationError", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "ValidationError", "user_prompt is required")
		return
	}

	result, err := h.client.ChatCompletion(r.Context(), []openai.Message{
		{Role: "system", Content: glossarySystemPrompt},
		{Role: "user", Content: req.UserPrompt},
	}, h.completionOptions(req))
	if err != nil {
		respondFailure(h.logger, w, apperrors.NewExternalError("AI completion failed").WithCause(err))
		return
	}

	term := ""
	if m := termFromPrompt.FindStringSubmatch(req.UserPrompt); m != nil {
		term = strings.TrimSpace(m[1])
	}

	summary := textutil.ToOneSentence(textutil.ToPlain(result.Content))
	respondJSON(h.logger, w, http.StatusOK, AIResponse{
		Term:        term,
		Explanation: summary,
		Model:       result.Model,
		Usage:       result.Usage,
	})
}

// ExplainTerm handles POST /api/explain-term: a full markdown explanation
// for documentation use.
func (h *AIHandler) ExplainTerm(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	var req ExplainTermRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "ValidationError", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "ValidationError", "term is required")
		return
	}
	if req.Language == "" {
		req.Language = "ja"
	}

	userPrompt := fmt.Sprintf("用語: %s\n追加文脈: %s\n出力言語: %s", req.Term, req.Context, req.Language)

	result, err := h.client.ChatCompletion(r.Context(), []openai.Message{
		{Role: "system", Content: explainSystemPrompt},
		{Role: "user", Content: userPrompt},
	}, openai.Options{MaxRetries: h.cfg.AIRetryCount})
	if err != nil {
		respondFailure(h.logger, w, apperrors.NewExternalError("AI completion failed").WithCause(err))
		return
	}

	respondJSON(h.logger, w, http.StatusOK, AIResponse{
		Term:        req.Term,
		Explanation: result.Content,
		Model:       result.Model,
		Usage:       result.Usage,
	})
}

// available fails fast when the completion backend is disabled or not
// configured.
func (h *AIHandler) available(w http.ResponseWriter) bool {
	if h.client == nil || !h.cfg.AIEnableExplanation {
		respondError(h.logger, w, http.StatusServiceUnavailable, "Unavailable", "AI explanation is not configured")
		return false
	}
	return true
}

// completionOptions merges the caller's sampling overrides with the
// configured defaults.
func (h *AIHandler) completionOptions(req AIRequest) openai.Options {
	opts := openai.Options{
		Temperature:      req.Temperature,
		TopP:             req.TopP,
		FrequencyPenalty: req.FrequencyPenalty,
		PresencePenalty:  req.PresencePenalty,
		MaxRetries:       h.cfg.AIRetryCount,
	}
	if opts.Temperature == nil {
		t := h.cfg.AITemperature
		opts.Temperature = &t
	}
	if opts.TopP == nil {
		p := h.cfg.AITopP
		opts.TopP = &p
	}
	if opts.FrequencyPenalty == nil {
		f := h.cfg.AIFrequencyPenalty
		opts.FrequencyPenalty = &f
	}
	if opts.PresencePenalty == nil {
		p := h.cfg.AIPresencePenalty
		opts.PresencePenalty = &p
	}
	return opts
}
