package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCacheSetGet(t *testing.T) {
	c := New(time.Minute)
	defer c.Stop()

	c.Set("k1", payload{Name: "wardrobe", Count: 3})

	var got payload
	require.True(t, c.Get("k1", &got))
	assert.Equal(t, "wardrobe", got.Name)
	assert.Equal(t, 3, got.Count)

	assert.False(t, c.Get("missing", &got))
}

func TestCacheSnapshotIsolation(t *testing.T) {
	c := New(time.Minute)
	defer c.Stop()

	p := payload{Name: "before"}
	c.Set("k", p)
	p.Name = "after"

	var got payload
	require.True(t, c.Get("k", &got))
	assert.Equal(t, "before", got.Name)
}

func TestCacheExpiry(t *testing.T) {
	c := New(20 * time.Millisecond)
	defer c.Stop()

	c.Set("k", payload{Name: "short"})
	time.Sleep(50 * time.Millisecond)

	var got payload
	assert.False(t, c.Get("k", &got))
}

func TestCacheInvalidatePrefix(t *testing.T) {
	c := New(time.Minute)
	defer c.Stop()

	c.Set("catalog:list:a", payload{Name: "a"})
	c.Set("catalog:list:b", payload{Name: "b"})
	c.Set("other:x", payload{Name: "x"})

	c.InvalidatePrefix("catalog:list:")

	var got payload
	assert.False(t, c.Get("catalog:list:a", &got))
	assert.False(t, c.Get("catalog:list:b", &got))
	assert.True(t, c.Get("other:x", &got))
}
