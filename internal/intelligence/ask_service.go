package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alexanderramin/harborguide/internal/llm"
	"github.com/alexanderramin/harborguide/internal/logging"
	"github.com/alexanderramin/harborguide/internal/service"
)

// MaxQuestionRunes caps the question forwarded to the model.
const MaxQuestionRunes = 2000

// Answer sources.
const (
	SourceLLM           = "llm"
	SourceDeterministic = "deterministic"
)

var (
	ErrEmptyQuestion = errors.New("missing 'question'")
	ErrUnknownMode   = errors.New("unknown ask mode")
)

// Mode selects how much data grounds an answer.
type Mode string

const (
	ModeStub    Mode = "stub"
	ModeLLMOnly Mode = "llm_only"
	ModeCards   Mode = "cards"
	ModeKPIs    Mode = "kpis"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeStub, ModeLLMOnly, ModeCards, ModeKPIs:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// AskRequest is one conversational question. An empty Mode uses the
// service default.
type AskRequest struct {
	Question  string
	SourceKey string
	Mode      Mode
}

// AskAnswer is the markdown answer plus where it came from.
type AskAnswer struct {
	Answer string `json:"answer"`
	Mode   Mode   `json:"mode"`
	Source string `json:"source"` // "llm" or "deterministic"
}

// AskService answers operational questions, grounded in data cards or KPIs
// depending on the mode.
type AskService interface {
	Ask(ctx context.Context, req AskRequest) (*AskAnswer, error)
}

type askService struct {
	client      llm.LLMClient
	contexts    service.ContextService
	kpis        service.KPIService
	defaultMode Mode
}

// NewAskService creates an AskService. client may be nil, in which case every
// mode answers deterministically.
func NewAskService(client llm.LLMClient, contexts service.ContextService, kpis service.KPIService, defaultMode Mode) AskService {
	if defaultMode == "" {
		defaultMode = ModeCards
	}
	return &askService{
		client:      client,
		contexts:    contexts,
		kpis:        kpis,
		defaultMode: defaultMode,
	}
}

// NormalizeQuestion trims q and caps it at MaxQuestionRunes.
func NormalizeQuestion(q string) (string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", ErrEmptyQuestion
	}
	if utf8.RuneCountInString(q) > MaxQuestionRunes {
		q = string([]rune(q)[:MaxQuestionRunes])
	}
	return q, nil
}

func (s *askService) Ask(ctx context.Context, req AskRequest) (*AskAnswer, error) {
	question, err := NormalizeQuestion(req.Question)
	if err != nil {
		return nil, err
	}

	mode := req.Mode
	if mode == "" {
		mode = s.defaultMode
	}

	switch mode {
	case ModeStub:
		return &AskAnswer{Answer: StubAnswer, Mode: mode, Source: SourceDeterministic}, nil
	case ModeLLMOnly:
		return s.askWithoutData(ctx, question), nil
	case ModeCards:
		return s.askWithCards(ctx, question, req.SourceKey)
	case ModeKPIs:
		return s.askWithKPIs(ctx, question)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

func (s *askService) askWithoutData(ctx context.Context, question string) *AskAnswer {
	text, err := s.generate(ctx, llm.TaskAsk, lightSystemPrompt, buildLightUserPrompt(question))
	if err != nil {
		s.logFallback(ctx, ModeLLMOnly, err)
		return &AskAnswer{Answer: NoDataAnswer, Mode: ModeLLMOnly, Source: SourceDeterministic}
	}
	return &AskAnswer{Answer: text, Mode: ModeLLMOnly, Source: SourceLLM}
}

func (s *askService) askWithCards(ctx context.Context, question, sourceKey string) (*AskAnswer, error) {
	if s.contexts == nil {
		return nil, fmt.Errorf("cards mode: no context service configured")
	}
	res, err := s.contexts.Cards(ctx, sourceKey)
	if err != nil {
		return nil, fmt.Errorf("loading data cards: %w", err)
	}

	text, err := s.generate(ctx, llm.TaskAsk, analystSystemPrompt, buildAnalystUserPrompt(question, res.Text))
	if err != nil {
		s.logFallback(ctx, ModeCards, err)
		return &AskAnswer{Answer: DeterministicCardsAnswer(res), Mode: ModeCards, Source: SourceDeterministic}, nil
	}
	return &AskAnswer{Answer: text, Mode: ModeCards, Source: SourceLLM}, nil
}

func (s *askService) askWithKPIs(ctx context.Context, question string) (*AskAnswer, error) {
	if s.kpis == nil {
		return nil, fmt.Errorf("kpis mode: no KPI service configured")
	}
	snap, err := s.kpis.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading kpis: %w", err)
	}

	userPrompt, err := buildBriefingUserPrompt(question, snap)
	if err != nil {
		return nil, err
	}
	text, err := s.generate(ctx, llm.TaskBriefing, briefingSystemPrompt, userPrompt)
	if err != nil {
		s.logFallback(ctx, ModeKPIs, err)
		return &AskAnswer{Answer: DeterministicBriefing(snap), Mode: ModeKPIs, Source: SourceDeterministic}, nil
	}
	return &AskAnswer{Answer: text, Mode: ModeKPIs, Source: SourceLLM}, nil
}

func (s *askService) generate(ctx context.Context, task llm.TaskType, system, user string) (string, error) {
	if s.client == nil {
		return "", llm.ErrNotConfigured
	}
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         task,
		SystemPrompt: system,
		UserPrompt:   user,
	})
	if err != nil {
		return "", fmt.Errorf("llm %s generation failed: %w", task, err)
	}
	return resp.Text, nil
}

func (s *askService) logFallback(ctx context.Context, mode Mode, err error) {
	logging.FromContext(ctx).DebugContext(ctx, "ask answered deterministically",
		"mode", string(mode), "reason", err.Error())
}
