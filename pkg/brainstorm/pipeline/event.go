package pipeline

import "mindforge-be/internal/constant"

// Event is one server-push frame of a turn stream.
type Event struct {
	Name    string
	Payload interface{}
}

// Terminal reports whether the event ends the stream.
func (e Event) Terminal() bool {
	return e.Name == constant.EventDone || e.Name == constant.EventError
}

type StatusPayload struct {
	Status string `json:"status"`
}

type TranscriptPayload struct {
	Raw     string `json:"raw"`
	Cleaned string `json:"cleaned"`
}

type TokenPayload struct {
	Text string `json:"text"`
}

// SectionPayload carries analysis, gaps, insights and questions.
type SectionPayload struct {
	Content string `json:"content"`
}

// WhitepaperPayload is the applied delta, section key to content.
type WhitepaperPayload map[string]string

type RuleEntry struct {
	Category string `json:"category"`
	RuleText string `json:"rule_text"`
}

type NewRulesPayload struct {
	Count int         `json:"count"`
	Rules []RuleEntry `json:"rules"`
}

// PhaseInfoPayload is the model's phase object as parsed.
type PhaseInfoPayload map[string]interface{}

type NichePayload struct {
	Niche string `json:"niche"`
}

type CompletionPayload struct {
	Pct float64 `json:"pct"`
}

type DonePayload struct {
	SessionID string `json:"session_id"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
