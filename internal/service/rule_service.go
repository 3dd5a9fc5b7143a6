package service

import (
	"context"
	"errors"
	"fmt"

	"mindforge-be/internal/constant"
	"mindforge-be/internal/dto"
	"mindforge-be/internal/entity"
	"mindforge-be/internal/pkg/logger"
	"mindforge-be/internal/pkg/serverutils"
	"mindforge-be/pkg/brainstorm/rules"
	"mindforge-be/pkg/events"
	pktNats "mindforge-be/pkg/nats"

	"github.com/google/uuid"
)

const ruleFeedbackDurable = "mindforge-rule-feedback"

// RuleBook is the part of the learned rule store the service needs.
type RuleBook interface {
	ListActive(ctx context.Context) ([]*entity.LearnedRule, error)
	Apply(ctx context.Context, ruleID uuid.UUID) error
}

// EventSubscriber registers a durable handler for a subject.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

type IRuleService interface {
	List(ctx context.Context) ([]*dto.LearnedRuleResponse, error)
	Apply(ctx context.Context, ruleID uuid.UUID) error
	// HandleFeedback applies a rule reported on the message bus.
	HandleFeedback(ctx context.Context, event events.Event) error
	Start(ctx context.Context, subscriber EventSubscriber) error
}

type ruleService struct {
	store            RuleBook
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewRuleService(store RuleBook, publisherService IPublisherService, log logger.ILogger) IRuleService {
	return &ruleService{
		store:            store,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *ruleService) List(ctx context.Context) ([]*dto.LearnedRuleResponse, error) {
	learned, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.LearnedRuleResponse, 0, len(learned))
	for _, r := range learned {
		result = append(result, &dto.LearnedRuleResponse{
			Id:              r.Id,
			Category:        r.Category,
			RuleText:        r.RuleText,
			SourceSessionId: r.SourceSessionId,
			TimesApplied:    r.TimesApplied,
			CreatedAt:       r.CreatedAt,
		})
	}
	return result, nil
}

func (s *ruleService) Apply(ctx context.Context, ruleID uuid.UUID) error {
	if err := s.store.Apply(ctx, ruleID); err != nil {
		if errors.Is(err, rules.ErrRuleNotFound) {
			return serverutils.NotFound("Rule not found")
		}
		return err
	}

	if s.publisherService != nil {
		ev := events.New(constant.DomainEventRuleApplied, map[string]interface{}{"rule_id": ruleID.String()})
		if err := s.publisherService.Publish(ctx, ev); err != nil {
			s.logger.Warn("RuleService", "Failed to publish domain event", map[string]interface{}{
				"rule_id": ruleID, "error": err.Error(),
			})
		}
	}
	return nil
}

// HandleFeedback acknowledges events it can never apply; only storage
// failures are returned for redelivery.
func (s *ruleService) HandleFeedback(ctx context.Context, event events.Event) error {
	raw, ok := events.StringField(event, "rule_id")
	if !ok {
		s.logger.Warn("RuleService", "Feedback without rule_id", map[string]interface{}{"type": event.EventType()})
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		s.logger.Warn("RuleService", "Feedback with invalid rule_id", map[string]interface{}{"rule_id": raw})
		return nil
	}

	if err := s.store.Apply(ctx, id); err != nil {
		if errors.Is(err, rules.ErrRuleNotFound) {
			s.logger.Warn("RuleService", "Feedback for unknown rule", map[string]interface{}{"rule_id": raw})
			return nil
		}
		return fmt.Errorf("apply rule %s: %w", raw, err)
	}

	s.logger.Info("RuleService", "Rule applied from feedback", map[string]interface{}{"rule_id": raw})
	return nil
}

func (s *ruleService) Start(ctx context.Context, subscriber EventSubscriber) error {
	subject := pktNats.Subject(constant.DomainEventRuleFeedback)
	if err := subscriber.Subscribe(ctx, subject, ruleFeedbackDurable, s.HandleFeedback); err != nil {
		return fmt.Errorf("subscribe to %s: %w", subject, err)
	}
	return nil
}
