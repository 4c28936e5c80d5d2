package desktop

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/roach88/deskicons/internal/cache"
	"github.com/roach88/deskicons/internal/feed"
	"github.com/roach88/deskicons/internal/icon"
	"github.com/roach88/deskicons/internal/merge"
)

// IconStore persists catalog and user icons.
type IconStore interface {
	Find(ctx context.Context, filter icon.Filter) ([]icon.Icon, error)
	Get(ctx context.Context, id string) (icon.Icon, error)
	// Create returns an icon.ErrCodeConflict error on a uniqueness violation.
	Create(ctx context.Context, ic icon.Icon) (string, error)
	Update(ctx context.Context, id string, fields icon.Fields) error
	Delete(ctx context.Context, id string) error
}

// AccessControl supplies the modules a user may not see.
type AccessControl interface {
	BlockedModules(ctx context.Context, user string) (mapset.Set[string], error)
}

// AccessStore is an AccessControl that can also be edited.
type AccessStore interface {
	AccessControl
	BlockModule(ctx context.Context, user, module string) error
	UnblockModule(ctx context.Context, user, module string) error
}

// Service is the entry point for reading and customizing desktops.
type Service struct {
	icons      IconStore
	access     AccessStore
	feeds      feed.Provider
	cache      *cache.Cache
	logger     *slog.Logger
	systemUser string
	apps       []string
	pickSwatch icon.SwatchPicker
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Logs are discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithSystemUser sets the owner of catalog icons created by sync.
func WithSystemUser(user string) Option {
	return func(s *Service) { s.systemUser = user }
}

// WithApps sets the installed packages visited by SyncAll, in order.
func WithApps(apps ...string) Option {
	return func(s *Service) { s.apps = apps }
}

// WithSwatchPicker replaces the random palette draw for custom icons.
func WithSwatchPicker(p icon.SwatchPicker) Option {
	return func(s *Service) { s.pickSwatch = p }
}

// New creates a Service.
func New(icons IconStore, access AccessStore, feeds feed.Provider, c *cache.Cache, opts ...Option) *Service {
	s := &Service{
		icons:      icons,
		access:     access,
		feeds:      feeds,
		cache:      c,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		systemUser: icon.SystemUser,
		pickSwatch: icon.RandomSwatch,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetIcons returns the merged desktop of user, ordered for display.
// Hidden icons are included with Hidden set.
func (s *Service) GetIcons(ctx context.Context, user string) ([]icon.Icon, error) {
	if user == "" {
		return nil, fmt.Errorf("get icons: user is required")
	}
	return s.cache.Icons(ctx, user, func(ctx context.Context) ([]icon.Icon, error) {
		return s.loadIcons(ctx, user)
	})
}

func (s *Service) loadIcons(ctx context.Context, user string) ([]icon.Icon, error) {
	standard, err := s.icons.Find(ctx, icon.StandardOnly())
	if err != nil {
		return nil, fmt.Errorf("load standard icons: %w", err)
	}
	own, err := s.icons.Find(ctx, icon.OwnedBy(user))
	if err != nil {
		return nil, fmt.Errorf("load user icons: %w", err)
	}
	blocked, err := s.access.BlockedModules(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("load blocked modules: %w", err)
	}
	return merge.Merge(standard, own, blocked), nil
}

// BootInfo returns the desktop summary of user, cached alongside the icons.
func (s *Service) BootInfo(ctx context.Context, user string) (icon.BootInfo, error) {
	if user == "" {
		return icon.BootInfo{}, fmt.Errorf("boot info: user is required")
	}
	return s.cache.BootInfo(ctx, user, func(ctx context.Context) (icon.BootInfo, error) {
		icons, err := s.GetIcons(ctx, user)
		if err != nil {
			return icon.BootInfo{}, err
		}
		info := icon.BootInfo{User: user, Modules: []string{}, Hidden: []string{}}
		for _, ic := range icons {
			if ic.Hidden {
				info.Hidden = append(info.Hidden, ic.ModuleName)
			} else {
				info.Modules = append(info.Modules, ic.ModuleName)
			}
		}
		return info, nil
	})
}

// invalidate drops the cached view of user, or of everyone for a global
// (empty user) write.
func (s *Service) invalidate(user string) {
	if user == "" {
		s.cache.InvalidateAll()
		return
	}
	s.cache.Invalidate(user)
}
