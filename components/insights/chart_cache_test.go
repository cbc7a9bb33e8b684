package insights

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartCacheMemoizes(t *testing.T) {
	cache := NewChartCache(4, time.Minute)
	calls := 0
	render := func() (string, error) {
		calls++
		return "<div>chart</div>", nil
	}

	html, err := cache.GetOrRender("area:westeros:abc", render)
	require.NoError(t, err)
	assert.Equal(t, "<div>chart</div>", html)

	_, err = cache.GetOrRender("area:westeros:abc", render)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.Len())

	cache.Purge()
	assert.Equal(t, 0, cache.Len())
}

func TestChartCacheSkipsErrors(t *testing.T) {
	cache := NewChartCache(0, 0)
	_, err := cache.GetOrRender("key", func() (string, error) {
		return "", errors.New("boom")
	})
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestChartCacheExpires(t *testing.T) {
	cache := NewChartCache(4, 20*time.Millisecond)
	calls := 0
	render := func() (string, error) {
		calls++
		return "chart", nil
	}
	_, _ = cache.GetOrRender("key", render)
	time.Sleep(60 * time.Millisecond)
	_, _ = cache.GetOrRender("key", render)
	assert.Equal(t, 2, calls)
}

func TestNilChartCacheRendersDirectly(t *testing.T) {
	var cache *ChartCache
	html, err := cache.GetOrRender("key", func() (string, error) { return "direct", nil })
	require.NoError(t, err)
	assert.Equal(t, "direct", html)
	assert.Equal(t, 0, cache.Len())
}

func TestSpecHashIsStable(t *testing.T) {
	a := BuildSpec(EncodingArea, DefaultFixture().Revenue)
	b := BuildSpec(EncodingArea, DefaultFixture().Revenue)
	c := BuildSpec(EncodingBar, DefaultFixture().Revenue)
	assert.Equal(t, specHash(a), specHash(b))
	assert.NotEqual(t, specHash(a), specHash(c))
}
