// Package intelligence proposes weekly habits that move a key result,
// using a local LLM when one is configured and a rules table otherwise.
package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/alexanderramin/okra/internal/app"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/llm"
	"github.com/alexanderramin/okra/internal/progress"
)

// MaxSuggestions caps every response, whatever the model returns.
const MaxSuggestions = 3

const defaultCacheSize = 128

// KeyResultResolver loads a key result by UUID, prefix or OBJ/N reference.
type KeyResultResolver interface {
	Resolve(ctx context.Context, ref string) (*domain.KeyResult, error)
}

// ObjectiveLookup supplies the parent objective's title for the prompt.
type ObjectiveLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Objective, error)
}

// SuggestionService returns up to MaxSuggestions habits for a key result.
type SuggestionService interface {
	Suggest(ctx context.Context, keyResultID string) (*app.SuggestionResponse, error)
}

var _ app.SuggestUseCase = SuggestionService(nil)

type cacheKey struct {
	keyResultID string
	current     string
	status      domain.ProgressStatus
}

type cachedSuggestions struct {
	items  []app.Suggestion
	source app.SuggestionSource
}

type suggestionService struct {
	keyResults KeyResultResolver
	objectives ObjectiveLookup
	calc       progress.Calculator
	client     llm.Client
	cache      *lru.Cache[cacheKey, cachedSuggestions]
}

// NewSuggestionService builds a SuggestionService. A nil client always uses
// the rules table; cacheSize <= 0 selects the default size.
func NewSuggestionService(
	keyResults KeyResultResolver,
	objectives ObjectiveLookup,
	calc progress.Calculator,
	client llm.Client,
	cacheSize int,
) (SuggestionService, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[cacheKey, cachedSuggestions](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating suggestion cache: %w", err)
	}
	return &suggestionService{
		keyResults: keyResults,
		objectives: objectives,
		calc:       calc,
		client:     client,
		cache:      cache,
	}, nil
}

func (s *suggestionService) Suggest(ctx context.Context, keyResultID string) (*app.SuggestionResponse, error) {
	kr, err := s.keyResults.Resolve(ctx, keyResultID)
	if err != nil {
		return nil, fmt.Errorf("loading key result: %w", err)
	}
	result := s.calc.Measure(kr.Measure)

	resp := &app.SuggestionResponse{
		KeyResultID: kr.ID,
		Title:       kr.Title,
		Percentage:  result.Percentage,
		Status:      result.Status,
	}

	key := cacheKey{keyResultID: kr.ID, current: currentKey(kr.CurrentValue), status: result.Status}
	if hit, ok := s.cache.Get(key); ok {
		resp.Suggestions = append([]app.Suggestion(nil), hit.items...)
		resp.Source = hit.source
		resp.Cached = true
		return resp, nil
	}

	items, err := s.fromLLM(ctx, kr, result)
	source := app.SuggestionFromLLM
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		items = RuleSuggestions(kr.Type, result.Status)
		source = app.SuggestionFromRules
	}

	s.cache.Add(key, cachedSuggestions{items: append([]app.Suggestion(nil), items...), source: source})
	resp.Suggestions = items
	resp.Source = source
	return resp, nil
}

var errNoClient = errors.New("no llm client configured")

func (s *suggestionService) fromLLM(ctx context.Context, kr *domain.KeyResult, result progress.Result) ([]app.Suggestion, error) {
	if s.client == nil {
		return nil, errNoClient
	}

	in := promptInput{
		KeyResult:  kr.Title,
		Type:       string(kr.Type),
		Base:       progress.FormatValue(kr.BaseValue, kr.Unit),
		Current:    progress.FormatValue(kr.CurrentValue, kr.Unit),
		Target:     progress.FormatValue(&kr.TargetValue, kr.Unit),
		Percentage: progress.FormatPercent(result.Percentage),
		Status:     string(result.Status),
		Max:        MaxSuggestions,
	}
	if s.objectives != nil {
		if obj, err := s.objectives.GetByID(ctx, kr.ObjectiveID); err == nil {
			in.Objective = obj.Title
		}
	}

	prompt, err := renderSuggestPrompt(in)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskSuggest,
		SystemPrompt: suggestSystemPrompt,
		UserPrompt:   prompt,
		JSON:         true,
	})
	if err != nil {
		return nil, err
	}

	parsed, err := llm.ExtractJSON[suggestReply](resp.Text, validateSuggestReply)
	if err != nil {
		return nil, err
	}

	out := make([]app.Suggestion, 0, MaxSuggestions)
	for _, item := range parsed.Suggestions {
		if len(out) == MaxSuggestions {
			break
		}
		out = append(out, app.Suggestion{
			Title:     strings.TrimSpace(item.Title),
			Rationale: strings.TrimSpace(item.Rationale),
		})
	}
	return out, nil
}

type suggestReply struct {
	Suggestions []struct {
		Title     string `json:"title"`
		Rationale string `json:"rationale"`
	} `json:"suggestions"`
}

func validateSuggestReply(r suggestReply) error {
	if len(r.Suggestions) == 0 {
		return errors.New("no suggestions")
	}
	for i, s := range r.Suggestions {
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("suggestion %d has no title", i+1)
		}
	}
	return nil
}

func currentKey(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
