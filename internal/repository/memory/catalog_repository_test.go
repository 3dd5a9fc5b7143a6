package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"mindforge-be/pkg/brainstorm/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	rules, niches int
	err           error
}

func (s *countingSource) Rules(ctx context.Context) (*catalog.RuleBook, error) {
	s.rules++
	if s.err != nil {
		return nil, s.err
	}
	return &catalog.RuleBook{}, nil
}

func (s *countingSource) Niches(ctx context.Context) (*catalog.NicheBook, error) {
	s.niches++
	if s.err != nil {
		return nil, s.err
	}
	return &catalog.NicheBook{}, nil
}

func TestCatalogRepositoryCaches(t *testing.T) {
	src := &countingSource{}
	repo := NewCatalogRepository(src, time.Minute)
	ctx := context.Background()

	first, err := repo.Rules(ctx)
	require.NoError(t, err)
	second, err := repo.Rules(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, src.rules)

	_, err = repo.Niches(ctx)
	require.NoError(t, err)
	_, err = repo.Niches(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, src.niches)

	repo.Invalidate()
	_, err = repo.Rules(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.rules)
}

func TestCatalogRepositoryExpires(t *testing.T) {
	src := &countingSource{}
	repo := NewCatalogRepository(src, 10*time.Millisecond)

	_, err := repo.Rules(context.Background())
	require.NoError(t, err)
	time.Sleep(25 * time.Millisecond)
	_, err = repo.Rules(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, src.rules)
}

func TestCatalogRepositoryDoesNotCacheErrors(t *testing.T) {
	src := &countingSource{err: errors.New("disk gone")}
	repo := NewCatalogRepository(src, time.Minute)

	_, err := repo.Niches(context.Background())
	assert.Error(t, err)
	_, err = repo.Niches(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 2, src.niches)
}
