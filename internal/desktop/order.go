package desktop

import (
	"context"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/roach88/deskicons/internal/icon"
)

// pseudoModules appear on desktops but are never stored.
var pseudoModules = mapset.NewSet("Explore")

// SetOrder stores the display order of user's icons: each listed module gets
// its position as idx. Every listed module is copied to the user on first
// touch, even ones the user never customized.
func (s *Service) SetOrder(ctx context.Context, modules []string, user string) error {
	if user == "" {
		return fmt.Errorf("set order: user is required")
	}
	defer s.cache.Invalidate(user)

	for i, module := range modules {
		if pseudoModules.Contains(module) {
			continue
		}
		override, err := s.GetOrCreateOverride(ctx, module, user)
		if err != nil {
			return err
		}
		if override.Idx == i {
			continue
		}
		if err := s.icons.Update(ctx, override.ID, icon.Fields{icon.FieldIdx: i}); err != nil {
			return fmt.Errorf("set order of %s: %w", module, err)
		}
	}
	return nil
}

// NextIdx returns the idx for an icon appended to user's desktop: one past
// the user's highest idx, or the catalog size when the user has no icons of
// their own yet.
func (s *Service) NextIdx(ctx context.Context, user string) (int, error) {
	own, err := s.icons.Find(ctx, icon.OwnedBy(user))
	if err != nil {
		return 0, fmt.Errorf("next idx: %w", err)
	}
	if len(own) > 0 {
		highest := own[0].Idx
		for _, ic := range own[1:] {
			highest = max(highest, ic.Idx)
		}
		return highest + 1, nil
	}

	standard, err := s.icons.Find(ctx, icon.StandardOnly())
	if err != nil {
		return 0, fmt.Errorf("next idx: %w", err)
	}
	return len(standard), nil
}
