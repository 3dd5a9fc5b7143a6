package competitor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mindforge-be/internal/constant"
	"mindforge-be/internal/entity"
	"mindforge-be/internal/pkg/logger"
	"mindforge-be/internal/repository/specification"
	"mindforge-be/internal/repository/unitofwork"
	"mindforge-be/pkg/events"
	"mindforge-be/pkg/llm"

	"github.com/google/uuid"
)

const module = "Competitor"

var ErrNoURLs = errors.New("no competitor URLs found; include full http(s) links in the query or pass urls")

// Event is one server-push frame of an analysis stream.
type Event struct {
	Name    string
	Payload interface{}
}

type StatusPayload struct {
	Status  string `json:"status"`
	Count   int    `json:"count,omitempty"`
	Current int    `json:"current,omitempty"`
	Total   int    `json:"total,omitempty"`
	URL     string `json:"url,omitempty"`
}

type SiteFetchedPayload struct {
	URL    string `json:"url"`
	Status string `json:"status"`
	Title  string `json:"title"`
}

type TokenPayload struct {
	Text string `json:"text"`
}

type CompletePayload struct {
	Content       string `json:"content"`
	SitesAnalyzed int    `json:"sites_analyzed"`
}

type DonePayload struct {
	SessionID string `json:"session_id"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type Request struct {
	SessionID uuid.UUID
	Query     string
	URLs      []string
}

type SiteFetcher interface {
	Fetch(ctx context.Context, url string) entity.SiteExtraction
}

type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
	MaxSites    int
}

type Analyzer struct {
	uowFactory unitofwork.RepositoryFactory
	fetcher    SiteFetcher
	provider   llm.LLMProvider
	publisher  events.Publisher
	logger     logger.ILogger
	opts       Options
}

// NewAnalyzer builds an analyzer. publisher may be nil.
func NewAnalyzer(uowFactory unitofwork.RepositoryFactory, fetcher SiteFetcher, provider llm.LLMProvider, publisher events.Publisher, log logger.ILogger, opts Options) *Analyzer {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Analyzer{
		uowFactory: uowFactory,
		fetcher:    fetcher,
		provider:   provider,
		publisher:  publisher,
		logger:     log,
		opts:       opts,
	}
}

// Run streams the analysis. The channel closes after one done or error
// event, or as soon as ctx is cancelled.
func (a *Analyzer) Run(ctx context.Context, req Request) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		r := &run{a: a, req: req, out: out}
		if err := r.execute(ctx); err != nil {
			a.logger.Error(module, "Competitor analysis failed", map[string]interface{}{
				"session_id": req.SessionID, "error": err.Error(),
			})
			_ = r.emit(ctx, constant.EventError, ErrorPayload{Message: err.Error()})
		}
	}()
	return out
}

type run struct {
	a   *Analyzer
	req Request
	out chan<- Event
}

func (r *run) emit(ctx context.Context, name string, payload interface{}) error {
	select {
	case r.out <- Event{Name: name, Payload: payload}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *run) execute(ctx context.Context) error {
	urls := ResolveURLs(r.req.Query, r.req.URLs, r.a.opts.MaxSites)
	if len(urls) == 0 {
		return ErrNoURLs
	}

	niche, overview, err := r.projectContext(ctx)
	if err != nil {
		return err
	}

	if err := r.emit(ctx, constant.EventStatus, StatusPayload{Status: constant.StatusFetchingCompetitors, Count: len(urls)}); err != nil {
		return err
	}

	results := make([]entity.SiteExtraction, 0, len(urls))
	for i, u := range urls {
		if err := r.emit(ctx, constant.EventStatus, StatusPayload{
			Status: constant.StatusAnalyzingSite, Current: i + 1, Total: len(urls), URL: u,
		}); err != nil {
			return err
		}
		site := r.a.fetcher.Fetch(ctx, u)
		results = append(results, site)

		status := "success"
		if !site.OK() {
			status = "error"
		}
		if err := r.emit(ctx, constant.EventSiteFetched, SiteFetchedPayload{URL: u, Status: status, Title: site.Title}); err != nil {
			return err
		}
	}

	if err := r.emit(ctx, constant.EventStatus, StatusPayload{Status: constant.StatusAnalyzingWithAI}); err != nil {
		return err
	}

	history := []llm.Message{
		{Role: llm.RoleSystem, Content: constant.CompetitorSystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(constant.CompetitorAnalysisPrompt, niche, overview, FormatSites(results))},
	}
	summary, err := r.stream(ctx, history)
	if err != nil {
		return err
	}

	analysis := &entity.CompetitorAnalysis{
		SessionId: r.req.SessionID,
		Query:     r.req.Query,
		URLs:      urls,
		Results:   results,
		Summary:   summary,
	}
	uow := r.a.uowFactory.NewUnitOfWork(ctx)
	if err := uow.CompetitorAnalysisRepository().Create(ctx, analysis); err != nil {
		return fmt.Errorf("save competitor analysis: %w", err)
	}
	r.publishFinished(ctx, analysis)

	if err := r.emit(ctx, constant.EventAnalysisComplete, CompletePayload{Content: summary, SitesAnalyzed: len(results)}); err != nil {
		return err
	}
	return r.emit(ctx, constant.EventDone, DonePayload{SessionID: r.req.SessionID.String()})
}

// projectContext reads the session niche and the project overview section.
func (r *run) projectContext(ctx context.Context) (string, string, error) {
	uow := r.a.uowFactory.NewUnitOfWork(ctx)
	niche := constant.DefaultNiche
	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: r.req.SessionID})
	if err != nil {
		return "", "", fmt.Errorf("load session: %w", err)
	}
	if session != nil && session.IsClassified() {
		niche = *session.NicheType
	}

	overview := r.req.Query
	wp, err := uow.WhitepaperRepository().FindOne(ctx, specification.BySessionID{SessionID: r.req.SessionID})
	if err != nil {
		return "", "", fmt.Errorf("load whitepaper: %w", err)
	}
	if wp != nil {
		if v := strings.TrimSpace(wp.Content["project_overview"]); v != "" {
			overview = v
		}
	}
	return niche, overview, nil
}

func (r *run) stream(ctx context.Context, history []llm.Message) (string, error) {
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	chunks, errs := r.a.provider.Stream(streamCtx, history,
		llm.WithModel(r.a.opts.Model),
		llm.WithMaxTokens(r.a.opts.MaxTokens),
		llm.WithTemperature(r.a.opts.Temperature),
	)
	var sb strings.Builder
	for chunk := range chunks {
		sb.WriteString(chunk)
		if err := r.emit(ctx, constant.EventToken, TokenPayload{Text: chunk}); err != nil {
			cancel()
			for range chunks {
			}
			<-errs
			return "", err
		}
	}
	if err := <-errs; err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (r *run) publishFinished(ctx context.Context, analysis *entity.CompetitorAnalysis) {
	if r.a.publisher == nil {
		return
	}
	ev := events.New(constant.DomainEventAnalysisFinished, map[string]interface{}{
		"session_id":     analysis.SessionId.String(),
		"analysis_id":    analysis.Id.String(),
		"sites_analyzed": len(analysis.Results),
	})
	if err := r.a.publisher.Publish(context.WithoutCancel(ctx), ev); err != nil {
		r.a.logger.Warn(module, "Failed to publish analysis event", map[string]interface{}{
			"session_id": analysis.SessionId, "error": err.Error(),
		})
	}
}

// FormatSites renders the extractions as the model's input block.
func FormatSites(sites []entity.SiteExtraction) string {
	var sb strings.Builder
	for i, s := range sites {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "### %s\n", s.URL)
		if !s.OK() {
			fmt.Fprintf(&sb, "Could not fetch: %s\n", s.Error)
			continue
		}
		fmt.Fprintf(&sb, "Title: %s\n", s.Title)
		if s.MetaDescription != "" {
			fmt.Fprintf(&sb, "Description: %s\n", s.MetaDescription)
		}
		if len(s.Headings) > 0 {
			fmt.Fprintf(&sb, "Headings: %s\n", strings.Join(s.Headings, " | "))
		}
		if len(s.NavLinks) > 0 {
			texts := make([]string, len(s.NavLinks))
			for j, l := range s.NavLinks {
				texts[j] = l.Text
			}
			fmt.Fprintf(&sb, "Links: %s\n", strings.Join(texts, " | "))
		}
		fmt.Fprintf(&sb, "Page size: %d bytes\n", s.ContentLength)
	}
	return sb.String()
}
