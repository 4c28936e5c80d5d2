package desktop

import (
	"context"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/roach88/deskicons/internal/icon"
)

// SetHidden hides or shows one module. With an empty user the catalog entry
// changes for everyone.
//
// For a user, hiding a module whose override carries no custom icon deletes
// the override instead of storing hidden=true, leaving the catalog entry in
// charge of that module. Custom icons keep hidden=true so AddCustomIcon can
// restore them later.
func (s *Service) SetHidden(ctx context.Context, module, user string, hidden bool) error {
	if user == "" {
		if err := s.setCatalogHidden(ctx, module, hidden); err != nil {
			return err
		}
		s.cache.InvalidateAll()
		return nil
	}

	override, err := s.GetOrCreateOverride(ctx, module, user)
	if err != nil {
		return err
	}
	defer s.cache.Invalidate(user)

	if hidden && !override.Custom {
		if err := s.icons.Delete(ctx, override.ID); err != nil {
			return fmt.Errorf("delete redundant user copy of %s: %w", module, err)
		}
		s.logger.DebugContext(ctx, "deleted redundant user copy", "module", module, "user", user)
		return nil
	}

	return s.setOverrideHidden(ctx, override, hidden)
}

// SetHiddenList hides the listed modules and shows every other catalog
// module, for user or, with an empty user, for everyone.
//
// Unlike SetHidden, the hidden flag is always stored on the user's
// override; nothing is deleted.
func (s *Service) SetHiddenList(ctx context.Context, hiddenModules []string, user string) error {
	defer s.invalidate(user)

	hiddenSet := mapset.NewThreadUnsafeSet[string]()
	for _, module := range hiddenModules {
		if !hiddenSet.Add(module) {
			continue
		}
		if err := s.storeHidden(ctx, module, user, true); err != nil {
			return err
		}
	}

	modules, err := s.standardModules(ctx)
	if err != nil {
		return err
	}
	for _, module := range modules {
		if hiddenSet.Contains(module) {
			continue
		}
		if err := s.storeHidden(ctx, module, user, false); err != nil {
			return err
		}
	}

	return nil
}

// storeHidden persists the hidden flag on the catalog entry or the user's
// override.
func (s *Service) storeHidden(ctx context.Context, module, user string, hidden bool) error {
	if user == "" {
		return s.setCatalogHidden(ctx, module, hidden)
	}
	override, err := s.GetOrCreateOverride(ctx, module, user)
	if err != nil {
		return err
	}
	return s.setOverrideHidden(ctx, override, hidden)
}

func (s *Service) setCatalogHidden(ctx context.Context, module string, hidden bool) error {
	std, err := s.findStandard(ctx, module)
	if err != nil {
		return err
	}
	if std.Hidden == hidden {
		return nil
	}
	if err := s.icons.Update(ctx, std.ID, icon.Fields{icon.FieldHidden: hidden}); err != nil {
		return fmt.Errorf("set hidden on %s: %w", module, err)
	}
	return nil
}

func (s *Service) setOverrideHidden(ctx context.Context, override icon.Icon, hidden bool) error {
	if override.Hidden == hidden {
		return nil
	}
	if err := s.icons.Update(ctx, override.ID, icon.Fields{icon.FieldHidden: hidden}); err != nil {
		return fmt.Errorf("set hidden on %s: %w", override.ModuleName, err)
	}
	return nil
}
