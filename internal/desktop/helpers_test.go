package desktop

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/deskicons/internal/cache"
	"github.com/roach88/deskicons/internal/feed"
	"github.com/roach88/deskicons/internal/icon"
	"github.com/roach88/deskicons/internal/store"
)

type fixture struct {
	svc   *Service
	store *store.Store
	cache *cache.TTLStore
}

func newFixture(t *testing.T, feeds feed.Provider, opts ...Option) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"),
		store.WithIDGenerator(icon.NewSequenceGenerator("icon")))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cs := cache.NewTTLStore(0)
	t.Cleanup(cs.Close)

	if feeds == nil {
		feeds = feed.Static{}
	}
	opts = append([]Option{WithSwatchPicker(func() icon.Swatch { return icon.Palette[0] })}, opts...)
	return &fixture{
		svc:   New(st, st, feeds, cache.New(cs, nil), opts...),
		store: st,
		cache: cs,
	}
}

// seed syncs the catalog from defs under package "erp".
func (f *fixture) seed(t *testing.T, defs ...feed.Definition) {
	t.Helper()
	_, err := f.svc.SyncFromSource(context.Background(), "erp", defs)
	require.NoError(t, err)
}

func (f *fixture) userIcons(t *testing.T, user string) []icon.Icon {
	t.Helper()
	icons, err := f.store.Find(context.Background(), icon.OwnedBy(user))
	require.NoError(t, err)
	return icons
}

func (f *fixture) standard(t *testing.T, module string) icon.Icon {
	t.Helper()
	filter := icon.StandardOnly()
	filter.ModuleName = module
	found, err := f.store.Find(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, found, 1)
	return found[0]
}

func (f *fixture) icons(t *testing.T, user string) []icon.Icon {
	t.Helper()
	icons, err := f.svc.GetIcons(context.Background(), user)
	require.NoError(t, err)
	return icons
}

func byModule(t *testing.T, icons []icon.Icon, module string) icon.Icon {
	t.Helper()
	for _, ic := range icons {
		if ic.ModuleName == module {
			return ic
		}
	}
	t.Fatalf("module %q not on desktop", module)
	return icon.Icon{}
}

func moduleNames(icons []icon.Icon) []string {
	out := make([]string, len(icons))
	for i, ic := range icons {
		out[i] = ic.ModuleName
	}
	return out
}

func def(module string) feed.Definition {
	return feed.Definition{ModuleName: module}
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }
