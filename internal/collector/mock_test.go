package collector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qepting91/tweet-miner/internal/domain"
)

func TestMockClient_NewestFirstWithinMax(t *testing.T) {
	mc := NewMockClient(25, 7, discardLogger())

	ids, err := collect(t, mc.Search(context.Background(), domain.PageRequest{PageSize: 10, MaxItems: 12}))
	require.NoError(t, err)
	require.Len(t, ids, 12)
	assert.Equal(t, int64(25), ids[0])
	assert.Equal(t, int64(14), ids[11])
}

func TestMockClient_HonoursSince(t *testing.T) {
	mc := NewMockClient(25, 7, discardLogger())
	req := domain.PageRequest{PageSize: 10, MaxItems: 100, Since: domain.Watermark{ID: 20, Set: true}}

	ids, err := collect(t, mc.Search(context.Background(), req))
	require.NoError(t, err)
	assert.Equal(t, []int64{25, 24, 23, 22, 21}, ids)

	req.Since = domain.Watermark{ID: 25, Set: true}
	ids, err = collect(t, mc.Search(context.Background(), req))
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestMockClient_Deterministic(t *testing.T) {
	a := NewMockClient(10, 3, discardLogger())
	b := NewMockClient(10, 3, discardLogger())
	assert.Equal(t, a.corpus, b.corpus)
}
