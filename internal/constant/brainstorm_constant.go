package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	SessionStatusActive = "active"
	DefaultSessionName  = "Untitled Project"
	DefaultNiche        = "general"
)

// Turn stream event names.
const (
	EventStatus          = "status"
	EventTranscript      = "transcript"
	EventToken           = "token"
	EventAnalysis        = "analysis"
	EventGaps            = "gaps"
	EventInsights        = "insights"
	EventQuestions       = "questions"
	EventWhitepaper      = "whitepaper_update"
	EventNewRules        = "new_rules"
	EventPhaseInfo       = "phase_info"
	EventNicheClassified = "niche_classified"
	EventCompletion      = "completion"
	EventDone            = "done"
	EventError           = "error"

	EventSiteFetched      = "site_fetched"
	EventAnalysisComplete = "analysis_complete"
)

const (
	StatusCleaningTranscript  = "cleaning_transcript"
	StatusLoadingRules        = "loading_rules"
	StatusThinking            = "thinking"
	StatusProcessing          = "processing"
	StatusFetchingCompetitors = "fetching_competitors"
	StatusAnalyzingSite       = "analyzing_site"
	StatusAnalyzingWithAI     = "analyzing_with_ai"
)

// Domain event types published on the in-process bus and exported to NATS.
const (
	DomainEventSessionCreated   = "SESSION_CREATED"
	DomainEventSessionDeleted   = "SESSION_DELETED"
	DomainEventTurnCompleted    = "TURN_COMPLETED"
	DomainEventRuleLearned      = "RULE_LEARNED"
	DomainEventRuleApplied      = "RULE_APPLIED"
	DomainEventAnalysisFinished = "ANALYSIS_FINISHED"
	DomainEventRuleFeedback     = "RULE_FEEDBACK"
)
