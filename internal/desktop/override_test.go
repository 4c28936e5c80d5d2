package desktop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/deskicons/internal/feed"
	"github.com/roach88/deskicons/internal/icon"
	"github.com/roach88/deskicons/internal/store"
)

func TestGetOrCreateOverride_CopiesSubset(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seed(t, feed.Definition{
		ModuleName: "Sales",
		Label:      "Selling",
		Route:      "sales",
		Type:       "module",
		DocType:    "Sales Order",
		Color:      "#1abc9c",
		Icon:       "octicon octicon-tag",
		Link:       "modules/Selling",
		Reverse:    boolPtr(true),
		ForceShow:  boolPtr(true),
		Hidden:     boolPtr(true),
		Idx:        intPtr(4),
	})

	ov, err := f.svc.GetOrCreateOverride(ctx, "Sales", "u1")
	require.NoError(t, err)

	assert.NotEmpty(t, ov.ID)
	assert.False(t, ov.Standard)
	assert.False(t, ov.Custom)
	assert.Equal(t, "u1", ov.Owner)
	assert.Equal(t, "erp", ov.App)
	assert.Equal(t, "Selling", ov.Label)
	assert.Equal(t, "sales", ov.Route)
	assert.Equal(t, "module", ov.Type)
	assert.Equal(t, "Sales Order", ov.DocType)
	assert.Equal(t, 4, ov.Idx)
	assert.True(t, ov.Reverse)
	assert.True(t, ov.ForceShow)

	// Presentation and visibility stay with the catalog.
	assert.Empty(t, ov.Color)
	assert.Empty(t, ov.Icon)
	assert.Empty(t, ov.Link)
	assert.False(t, ov.Hidden)
}

func TestGetOrCreateOverride_ReturnsExisting(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seed(t, def("Sales"))

	first, err := f.svc.GetOrCreateOverride(ctx, "Sales", "u1")
	require.NoError(t, err)
	second, err := f.svc.GetOrCreateOverride(ctx, "Sales", "u1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.userIcons(t, "u1"), 1)
}

func TestGetOrCreateOverride_UnknownModule(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.GetOrCreateOverride(context.Background(), "Nope", "u1")
	require.Error(t, err)
	assert.True(t, icon.IsNotFound(err))
	assert.Empty(t, f.userIcons(t, "u1"))
}

// racingStore lets a concurrent writer win the first user-icon create.
type racingStore struct {
	*store.Store
	raced bool
}

func (r *racingStore) Create(ctx context.Context, ic icon.Icon) (string, error) {
	if !ic.Standard && !r.raced {
		r.raced = true
		winner := ic
		winner.Idx = 99
		if _, err := r.Store.Create(ctx, winner); err != nil {
			return "", err
		}
	}
	return r.Store.Create(ctx, ic)
}

func TestGetOrCreateOverride_ConflictRefetches(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seed(t, def("Sales"))

	racy := &racingStore{Store: f.store}
	svc := New(racy, f.store, feed.Static{}, f.svc.cache)

	ov, err := svc.GetOrCreateOverride(ctx, "Sales", "u1")
	require.NoError(t, err)
	assert.Equal(t, 99, ov.Idx, "returns the winner's record")
	assert.Len(t, f.userIcons(t, "u1"), 1)
}

func TestUniqueness_AfterManyOperations(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seed(t, def("Sales"), def("HR"))

	require.NoError(t, f.svc.SetOrder(ctx, []string{"HR", "Sales"}, "u1"))
	require.NoError(t, f.svc.SetHiddenList(ctx, []string{"HR"}, "u1"))
	require.NoError(t, f.svc.SetOrder(ctx, []string{"Sales", "HR"}, "u1"))
	require.NoError(t, f.svc.SetHidden(ctx, "Sales", "u1", false))
	require.NoError(t, f.svc.SetHiddenList(ctx, nil, "u1"))

	counts := map[string]int{}
	for _, ic := range f.userIcons(t, "u1") {
		counts[ic.ModuleName]++
	}
	assert.Equal(t, map[string]int{"Sales": 1, "HR": 1}, counts)
}
