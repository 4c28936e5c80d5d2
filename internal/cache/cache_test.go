package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/deskicons/internal/icon"
)

func newTestCache(t *testing.T) (*Cache, *TTLStore) {
	t.Helper()
	st := NewTTLStore(0)
	t.Cleanup(st.Close)
	return New(st, nil), st
}

func loader(calls *int, icons ...icon.Icon) func(context.Context) ([]icon.Icon, error) {
	return func(context.Context) ([]icon.Icon, error) {
		*calls++
		return icons, nil
	}
}

func TestIcons_LoadsOnceUntilInvalidated(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	calls := 0
	load := loader(&calls, icon.Icon{ModuleName: "Sales"})

	for i := 0; i < 3; i++ {
		got, err := c.Icons(ctx, "u1", load)
		require.NoError(t, err)
		require.Len(t, got, 1)
	}
	assert.Equal(t, 1, calls)

	c.Invalidate("u1")
	_, err := c.Icons(ctx, "u1", load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestIcons_PerUserKeys(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	calls := 0
	load := loader(&calls)

	_, _ = c.Icons(ctx, "u1", load)
	_, _ = c.Icons(ctx, "u2", load)
	assert.Equal(t, 2, calls)

	c.Invalidate("u1")
	_, _ = c.Icons(ctx, "u2", load)
	assert.Equal(t, 2, calls, "u2 untouched by u1 invalidation")
}

func TestIcons_ErrorsNotCached(t *testing.T) {
	c, st := newTestCache(t)
	ctx := context.Background()
	boom := errors.New("store down")

	_, err := c.Icons(ctx, "u1", func(context.Context) ([]icon.Icon, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, st.Len())
}

func TestIcons_ReturnsCopies(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	calls := 0
	load := loader(&calls, icon.Icon{ModuleName: "Sales"})

	got, err := c.Icons(ctx, "u1", load)
	require.NoError(t, err)
	got[0].Hidden = true

	again, err := c.Icons(ctx, "u1", load)
	require.NoError(t, err)
	assert.False(t, again[0].Hidden)
}

func TestInvalidate_DropsBootInfoInLockstep(t *testing.T) {
	c, st := newTestCache(t)
	ctx := context.Background()
	iconCalls, bootCalls := 0, 0
	bootLoad := func(context.Context) (icon.BootInfo, error) {
		bootCalls++
		return icon.BootInfo{User: "u1", Modules: []string{"Sales"}}, nil
	}

	_, _ = c.Icons(ctx, "u1", loader(&iconCalls))
	info, err := c.BootInfo(ctx, "u1", bootLoad)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sales"}, info.Modules)
	assert.Equal(t, 2, st.Len())

	_, _ = c.BootInfo(ctx, "u1", bootLoad)
	assert.Equal(t, 1, bootCalls)

	c.Invalidate("u1")
	assert.Equal(t, 0, st.Len())

	_, _ = c.BootInfo(ctx, "u1", bootLoad)
	assert.Equal(t, 2, bootCalls)
}

func TestInvalidateAll_FlushesEveryUser(t *testing.T) {
	c, st := newTestCache(t)
	ctx := context.Background()
	calls := 0
	load := loader(&calls)

	for _, u := range []string{"u1", "u2", "u3"} {
		_, _ = c.Icons(ctx, u, load)
	}
	assert.Equal(t, 3, st.Len())

	c.InvalidateAll()
	assert.Equal(t, 0, st.Len())
}

func TestTTLStore_Expires(t *testing.T) {
	st := NewTTLStore(20 * time.Millisecond)
	defer st.Close()

	key := Key{Namespace: NamespaceIcons, User: "u1"}
	st.Set(key, []icon.Icon{})
	_, ok := st.Get(key)
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok := st.Get(key)
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestIcons_LoadOvertakenByInvalidationNotStored(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		invalidate func(c *Cache)
	}{
		{name: "same user", invalidate: func(c *Cache) { c.Invalidate("u1") }},
		{name: "global", invalidate: func(c *Cache) { c.InvalidateAll() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, st := newTestCache(t)

			stale := func(context.Context) ([]icon.Icon, error) {
				tt.invalidate(c)
				return []icon.Icon{{ModuleName: "Sales"}}, nil
			}
			got, err := c.Icons(ctx, "u1", stale)
			require.NoError(t, err)
			assert.Len(t, got, 1, "the caller still gets its load")
			assert.Equal(t, 0, st.Len())

			calls := 0
			_, err = c.Icons(ctx, "u1", loader(&calls, icon.Icon{ModuleName: "Sales", Hidden: true}))
			require.NoError(t, err)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestIcons_OtherUserInvalidationKeepsLoad(t *testing.T) {
	c, st := newTestCache(t)
	ctx := context.Background()

	_, err := c.Icons(ctx, "u1", func(context.Context) ([]icon.Icon, error) {
		c.Invalidate("u2")
		return []icon.Icon{{ModuleName: "Sales"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, st.Len())
}

func TestBootInfo_LoadOvertakenByInvalidationNotStored(t *testing.T) {
	c, st := newTestCache(t)
	ctx := context.Background()

	_, err := c.BootInfo(ctx, "u1", func(context.Context) (icon.BootInfo, error) {
		c.InvalidateAll()
		return icon.BootInfo{User: "u1", Modules: []string{"Sales"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, st.Len())
}
