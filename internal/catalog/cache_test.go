package catalog

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradesphere/quote-engine/internal/model"
)

// countingProvider wraps Static and counts reads against the backend.
type countingProvider struct {
	*Static
	serviceLoads atomic.Int32
	synonymLoads atomic.Int32
	varLoads     atomic.Int32
}

func (p *countingProvider) Services(ctx context.Context) ([]model.ServiceConfig, error) {
	p.serviceLoads.Add(1)
	return p.Static.Services(ctx)
}

func (p *countingProvider) Synonyms(ctx context.Context) ([]model.SynonymEntry, error) {
	p.synonymLoads.Add(1)
	return p.Static.Synonyms(ctx)
}

func (p *countingProvider) VariableConfig(ctx context.Context, companyID string) (*model.VariableConfig, error) {
	p.varLoads.Add(1)
	return p.Static.VariableConfig(ctx, companyID)
}

func TestCached_LoadsOnce(t *testing.T) {
	ctx := context.Background()
	inner := &countingProvider{Static: Default()}
	c := NewCached(inner)

	for range 3 {
		services, err := c.Services(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, services)

		sc, err := c.ServiceByName(ctx, "Paver Patio")
		require.NoError(t, err)
		require.NotNil(t, sc)

		_, err = c.Synonyms(ctx)
		require.NoError(t, err)

		_, err = c.VariableConfig(ctx, "acme")
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), inner.serviceLoads.Load())
	assert.Equal(t, int32(1), inner.synonymLoads.Load())
	assert.Equal(t, int32(1), inner.varLoads.Load())
}

func TestCached_UnknownServiceIsNilNotError(t *testing.T) {
	c := NewCached(Default())
	sc, err := c.ServiceByName(context.Background(), "Koi Pond")
	require.NoError(t, err)
	assert.Nil(t, sc)
}

func TestCached_InvalidateForcesReload(t *testing.T) {
	ctx := context.Background()
	inner := &countingProvider{Static: Default()}
	c := NewCached(inner)

	_, err := c.Services(ctx)
	require.NoError(t, err)
	_, err = c.Synonyms(ctx)
	require.NoError(t, err)

	c.Invalidate()

	_, err = c.Services(ctx)
	require.NoError(t, err)
	_, err = c.Synonyms(ctx)
	require.NoError(t, err)

	assert.Equal(t, int32(2), inner.serviceLoads.Load())
	assert.Equal(t, int32(2), inner.synonymLoads.Load())
}
