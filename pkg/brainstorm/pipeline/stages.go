package pipeline

import (
	"context"
	"fmt"
	"strings"

	"mindforge-be/internal/constant"
	"mindforge-be/internal/entity"
	"mindforge-be/internal/repository/specification"
	"mindforge-be/pkg/brainstorm/classifier"
	"mindforge-be/pkg/brainstorm/prompt"
	"mindforge-be/pkg/brainstorm/section"
	"mindforge-be/pkg/llm"

	"golang.org/x/sync/errgroup"
)

// turn is the mutable state of one Run.
type turn struct {
	p   *Pipeline
	req TurnRequest
	out chan<- Event

	cleaned  string
	userTurn *entity.ConversationTurn
	system   string
	history  []llm.Message
	response string
	sections map[string]string

	appliedDelta map[string]string
	learnedRules []RuleEntry
	completion   float64
	terminated   bool
}

func (t *turn) status(ctx context.Context, s string) error {
	return t.emit(ctx, constant.EventStatus, StatusPayload{Status: s})
}

func (t *turn) warn(message string, err error) {
	t.p.deps.Logger.Warn(module, message, map[string]interface{}{
		"session_id": t.req.SessionID, "error": err.Error(),
	})
}

// 1. Voice turns with a raw transcript are cleaned; others pass through.
func (t *turn) normalize(ctx context.Context) error {
	t.cleaned = t.req.Text
	if !t.req.IsVoice || strings.TrimSpace(t.req.RawTranscript) == "" {
		return nil
	}
	if err := t.status(ctx, constant.StatusCleaningTranscript); err != nil {
		return err
	}
	cleaned, err := t.p.deps.Cleaner.Clean(ctx, t.req.RawTranscript)
	if err != nil {
		return err
	}
	t.cleaned = cleaned
	return t.emit(ctx, constant.EventTranscript, TranscriptPayload{Raw: t.req.RawTranscript, Cleaned: cleaned})
}

// 2. The user turn is committed before any model call.
func (t *turn) persistUserTurn(ctx context.Context) error {
	turn := &entity.ConversationTurn{
		SessionId:   t.req.SessionID,
		Role:        entity.TurnRoleUser,
		CleanedText: t.cleaned,
	}
	if t.req.IsVoice && t.req.RawTranscript != "" {
		raw := t.req.RawTranscript
		turn.RawTranscript = &raw
	}
	uow := t.p.deps.UOWFactory.NewUnitOfWork(ctx)
	if err := uow.ConversationTurnRepository().Create(ctx, turn); err != nil {
		return fmt.Errorf("save user turn: %w", err)
	}
	t.userTurn = turn
	return nil
}

// 3. Rules, session state, niche block and prior turns are read concurrently.
func (t *turn) assembleContext(ctx context.Context) error {
	if err := t.status(ctx, constant.StatusLoadingRules); err != nil {
		return err
	}

	var rulesText, stateText, nicheText string
	var turns []*entity.ConversationTurn

	g, gctx := errgroup.WithContext(ctx)
	g.Go(guard(func() error {
		var err error
		rulesText, err = t.p.deps.Rules.Context(gctx)
		if err != nil {
			return fmt.Errorf("load rules context: %w", err)
		}
		return nil
	}))
	g.Go(guard(func() error {
		var err error
		stateText, err = t.p.deps.State.Build(gctx, t.req.SessionID)
		if err != nil {
			return fmt.Errorf("build session state: %w", err)
		}
		return nil
	}))
	g.Go(guard(func() error {
		var err error
		nicheText, err = t.nicheContext(gctx)
		return err
	}))
	g.Go(guard(func() error {
		uow := t.p.deps.UOWFactory.NewUnitOfWork(gctx)
		var err error
		turns, err = uow.ConversationTurnRepository().FindAll(gctx,
			specification.BySessionID{SessionID: t.req.SessionID},
			specification.ChronologicalTurns{},
		)
		if err != nil {
			return fmt.Errorf("load turns: %w", err)
		}
		return nil
	}))
	if err := g.Wait(); err != nil {
		return err
	}

	prior := make([]*entity.ConversationTurn, 0, len(turns))
	for _, turn := range turns {
		if t.userTurn != nil && turn.Id == t.userTurn.Id {
			continue
		}
		prior = append(prior, turn)
	}

	t.system = prompt.BuildSystem(nicheText, rulesText, stateText)
	t.history = prompt.History(t.system, prior, t.cleaned)
	return nil
}

// guard turns a panic into an error; errgroup goroutines are outside the
// stage recover.
func guard(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("internal error: %v", r)
			}
		}()
		return fn()
	}
}

func (t *turn) nicheContext(ctx context.Context) (string, error) {
	uow := t.p.deps.UOWFactory.NewUnitOfWork(ctx)
	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: t.req.SessionID})
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if session == nil || !session.IsClassified() {
		return "", nil
	}
	niches, err := t.p.deps.Catalog.Niches(ctx)
	if err != nil {
		return "", fmt.Errorf("load niche templates: %w", err)
	}
	return niches.Context(*session.NicheType), nil
}

// 4. Every chunk is forwarded before the next one is read.
func (t *turn) streamGeneration(ctx context.Context) error {
	if err := t.status(ctx, constant.StatusThinking); err != nil {
		return err
	}

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	chunks, errs := t.p.deps.Provider.Stream(streamCtx, t.history,
		llm.WithModel(t.p.opts.Model),
		llm.WithMaxTokens(t.p.opts.MaxTokens),
		llm.WithTemperature(t.p.opts.Temperature),
	)

	var sb strings.Builder
	for chunk := range chunks {
		sb.WriteString(chunk)
		if err := t.emit(ctx, constant.EventToken, TokenPayload{Text: chunk}); err != nil {
			cancel()
			for range chunks {
			}
			<-errs
			return err
		}
	}
	if err := <-errs; err != nil {
		return err
	}
	t.response = sb.String()
	return nil
}

// 5. Only present, non-empty sections produce events.
func (t *turn) extractSections(ctx context.Context) error {
	if err := t.status(ctx, constant.StatusProcessing); err != nil {
		return err
	}
	t.sections = section.ExtractAll(t.response, section.Tags...)

	for _, tag := range []string{section.TagAnalysis, section.TagGaps, section.TagInsights, section.TagQuestions} {
		content := t.sections[tag]
		if content == "" {
			continue
		}
		if err := t.emit(ctx, tag, SectionPayload{Content: content}); err != nil {
			return err
		}
	}
	return nil
}

// 6. Unparseable or empty deltas are skipped; the merge is transactional.
func (t *turn) applyWhitepaperUpdate(ctx context.Context) error {
	raw := t.sections[section.TagWhitepaperUpdate]
	if raw == "" {
		return nil
	}
	book, err := t.p.deps.Catalog.Rules(ctx)
	if err != nil {
		return fmt.Errorf("load rule book: %w", err)
	}
	delta, err := parseWhitepaperDelta(raw, book.IsSection)
	if err != nil {
		t.warn("Skipping malformed whitepaper_update", err)
		return nil
	}
	if len(delta) == 0 {
		return nil
	}

	if err := t.mergeWhitepaper(ctx, delta); err != nil {
		return err
	}
	t.appliedDelta = delta
	return t.emit(ctx, constant.EventWhitepaper, WhitepaperPayload(delta))
}

func (t *turn) mergeWhitepaper(ctx context.Context, delta map[string]string) error {
	uow := t.p.deps.UOWFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin whitepaper merge: %w", err)
	}
	defer uow.Rollback()

	repo := uow.WhitepaperRepository()
	wp, err := repo.FindOne(ctx, specification.BySessionID{SessionID: t.req.SessionID})
	if err != nil {
		return fmt.Errorf("load whitepaper: %w", err)
	}
	if wp == nil {
		wp = &entity.Whitepaper{SessionId: t.req.SessionID}
		wp.Merge(delta)
		if err := repo.Create(ctx, wp); err != nil {
			return fmt.Errorf("create whitepaper: %w", err)
		}
	} else {
		wp.Merge(delta)
		if err := repo.UpdateContent(ctx, t.req.SessionID, wp.Content); err != nil {
			return fmt.Errorf("update whitepaper: %w", err)
		}
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("commit whitepaper merge: %w", err)
	}
	return nil
}

// 7. Bad entries are skipped one by one.
func (t *turn) applyNewRules(ctx context.Context) error {
	raw := t.sections[section.TagNewRules]
	if raw == "" {
		return nil
	}
	book, err := t.p.deps.Catalog.Rules(ctx)
	if err != nil {
		return fmt.Errorf("load rule book: %w", err)
	}
	entries, sent, err := parseNewRules(raw, book.IsCategory)
	if err != nil {
		t.warn("Skipping malformed new_rules", err)
		return nil
	}
	if skipped := len(sent) - len(entries); skipped > 0 {
		t.p.deps.Logger.Debug(module, "Skipped invalid learned rules", map[string]interface{}{
			"session_id": t.req.SessionID, "skipped": skipped,
		})
	}

	sessionID := t.req.SessionID
	for _, e := range entries {
		rule, err := t.p.deps.Rules.Add(ctx, e.Category, e.RuleText, &sessionID)
		if err != nil {
			return fmt.Errorf("save learned rule: %w", err)
		}
		t.learnedRules = append(t.learnedRules, e)
		t.publish(ctx, constant.DomainEventRuleLearned, map[string]interface{}{
			"session_id": sessionID.String(),
			"rule_id":    rule.Id.String(),
			"category":   rule.Category,
		})
	}
	if len(sent) == 0 {
		return nil
	}
	return t.emit(ctx, constant.EventNewRules, NewRulesPayload{Count: len(sent), Rules: sent})
}

// 8. A non-integer phase skips the stage.
func (t *turn) applyPhaseInfo(ctx context.Context) error {
	raw := t.sections[section.TagPhaseInfo]
	if raw == "" {
		return nil
	}
	info, phase, err := parsePhaseInfo(raw)
	if err != nil {
		t.warn("Skipping malformed phase_info", err)
		return nil
	}
	uow := t.p.deps.UOWFactory.NewUnitOfWork(ctx)
	if err := uow.SessionRepository().UpdateFields(ctx, t.req.SessionID, map[string]interface{}{"current_phase": phase}); err != nil {
		return fmt.Errorf("update phase: %w", err)
	}
	return t.emit(ctx, constant.EventPhaseInfo, info)
}

// 9. Classification is written once and never overwritten.
func (t *turn) classifyNiche(ctx context.Context) error {
	analysis := t.sections[section.TagAnalysis]
	if analysis == "" {
		return nil
	}
	uow := t.p.deps.UOWFactory.NewUnitOfWork(ctx)
	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: t.req.SessionID})
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if session == nil || session.IsClassified() {
		return nil
	}

	niches, err := t.p.deps.Catalog.Niches(ctx)
	if err != nil {
		return fmt.Errorf("load niche templates: %w", err)
	}
	niche, ok := classifier.Classify(analysis, niches.KeywordTable())
	if !ok {
		return nil
	}
	set, err := uow.SessionRepository().ClassifyIfUnset(ctx, t.req.SessionID, niche)
	if err != nil {
		return fmt.Errorf("save niche: %w", err)
	}
	if !set {
		return nil
	}
	return t.emit(ctx, constant.EventNicheClassified, NichePayload{Niche: niche})
}

// 10. Sections that did not appear are stored as NULL.
func (t *turn) persistAssistantTurn(ctx context.Context) error {
	turn := &entity.ConversationTurn{
		SessionId:         t.req.SessionID,
		Role:              entity.TurnRoleAssistant,
		CleanedText:       t.response,
		Analysis:          t.optional(section.TagAnalysis),
		Gaps:              t.optional(section.TagGaps),
		Insights:          t.optional(section.TagInsights),
		Questions:         t.optional(section.TagQuestions),
		WhitepaperUpdates: t.optional(section.TagWhitepaperUpdate),
	}
	uow := t.p.deps.UOWFactory.NewUnitOfWork(ctx)
	if err := uow.ConversationTurnRepository().Create(ctx, turn); err != nil {
		return fmt.Errorf("save assistant turn: %w", err)
	}
	return nil
}

func (t *turn) optional(tag string) *string {
	v, ok := t.sections[tag]
	if !ok || v == "" {
		return nil
	}
	return &v
}

// 11. Completion is recomputed from the stored whitepaper every turn.
func (t *turn) updateCompletion(ctx context.Context) error {
	pct, err := t.p.deps.Completion.Compute(ctx, t.req.SessionID)
	if err != nil {
		return fmt.Errorf("compute completion: %w", err)
	}
	uow := t.p.deps.UOWFactory.NewUnitOfWork(ctx)
	if err := uow.SessionRepository().UpdateFields(ctx, t.req.SessionID, map[string]interface{}{"completion_pct": pct}); err != nil {
		return fmt.Errorf("update completion: %w", err)
	}
	t.completion = pct
	return t.emit(ctx, constant.EventCompletion, CompletionPayload{Pct: pct})
}

// 12. The turn ends with done once everything above is stored.
func (t *turn) finish(ctx context.Context) error {
	if err := t.emit(ctx, constant.EventDone, DonePayload{SessionID: t.req.SessionID.String()}); err != nil {
		return err
	}
	t.terminated = true
	return nil
}
