// Package completion scores how much of the whitepaper has been filled in.
package completion

import (
	"context"
	"fmt"
	"math"

	"mindforge-be/internal/repository/specification"
	"mindforge-be/internal/repository/unitofwork"
	"mindforge-be/pkg/brainstorm/catalog"

	"github.com/google/uuid"
)

// Percent is the share of keys whose value is non-empty, rounded to one
// decimal place. Keys outside the canonical list are ignored.
func Percent(content map[string]string, keys []string) float64 {
	if len(keys) == 0 {
		return 0
	}
	filled := 0
	for _, k := range keys {
		if content[k] != "" {
			filled++
		}
	}
	return math.Round(1000*float64(filled)/float64(len(keys))) / 10
}

type Calculator struct {
	uowFactory unitofwork.RepositoryFactory
	catalog    catalog.Source
}

func NewCalculator(uowFactory unitofwork.RepositoryFactory, source catalog.Source) *Calculator {
	return &Calculator{uowFactory: uowFactory, catalog: source}
}

// Compute reads the persisted whitepaper. A session with no whitepaper
// scores 0.
func (c *Calculator) Compute(ctx context.Context, sessionID uuid.UUID) (float64, error) {
	rules, err := c.catalog.Rules(ctx)
	if err != nil {
		return 0, fmt.Errorf("load rule book: %w", err)
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	wp, err := uow.WhitepaperRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionID})
	if err != nil {
		return 0, fmt.Errorf("load whitepaper: %w", err)
	}
	if wp == nil {
		return 0, nil
	}
	return Percent(wp.Content, rules.SectionKeys()), nil
}
