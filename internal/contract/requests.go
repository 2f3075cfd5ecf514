package contract

import "github.com/alexanderramin/okra/internal/app"

type PreviewRequest = app.PreviewRequest

type PreviewResponse = app.PreviewResponse

type CheckInRequest = app.CheckInRequest

type CheckInResult = app.CheckInResult

type Suggestion = app.Suggestion

type SuggestionSource = app.SuggestionSource

const (
	SuggestionFromLLM   SuggestionSource = app.SuggestionFromLLM
	SuggestionFromRules SuggestionSource = app.SuggestionFromRules
)

type SuggestionResponse = app.SuggestionResponse

type ImportResult = app.ImportResult

type ValidationError = app.ValidationError

type ValidationErrors = app.ValidationErrors
