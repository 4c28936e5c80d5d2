package desktop

import (
	"context"
	"fmt"

	"github.com/roach88/deskicons/internal/icon"
)

// GetOrCreateOverride returns the icon user owns for module, copying it from
// the catalog on first use.
//
// Only app, label, route, type, doctype, idx, reverse and force_show are
// copied; presentation fields keep flowing from the catalog at merge time.
// Returns an icon.ErrCodeNotFound error if module has neither a user icon
// nor a catalog entry.
func (s *Service) GetOrCreateOverride(ctx context.Context, module, user string) (icon.Icon, error) {
	if ic, ok, err := s.findOverride(ctx, module, user); err != nil || ok {
		return ic, err
	}

	std, err := s.findStandard(ctx, module)
	if err != nil {
		return icon.Icon{}, err
	}

	override := icon.Icon{
		ModuleName: module,
		Owner:      user,
		App:        std.App,
		Label:      std.Label,
		Route:      std.Route,
		Type:       std.Type,
		DocType:    std.DocType,
		Idx:        std.Idx,
		Reverse:    std.Reverse,
		ForceShow:  std.ForceShow,
	}
	id, err := s.icons.Create(ctx, override)
	if icon.IsConflict(err) {
		// Lost a race with a concurrent first customization.
		ic, ok, ferr := s.findOverride(ctx, module, user)
		if ferr != nil {
			return icon.Icon{}, ferr
		}
		if !ok {
			return icon.Icon{}, fmt.Errorf("get user copy of %s: %w", module, err)
		}
		return ic, nil
	}
	if err != nil {
		return icon.Icon{}, fmt.Errorf("get user copy of %s: %w", module, err)
	}

	s.logger.DebugContext(ctx, "created user copy", "module", module, "user", user, "id", id)
	return s.icons.Get(ctx, id)
}

// findOverride returns the icon user owns for module, if any.
func (s *Service) findOverride(ctx context.Context, module, user string) (icon.Icon, bool, error) {
	f := icon.OwnedBy(user)
	f.ModuleName = module
	found, err := s.icons.Find(ctx, f)
	if err != nil {
		return icon.Icon{}, false, fmt.Errorf("find user copy of %s: %w", module, err)
	}
	if len(found) == 0 {
		return icon.Icon{}, false, nil
	}
	return found[0], true, nil
}

// findStandard returns the catalog entry of module.
func (s *Service) findStandard(ctx context.Context, module string) (icon.Icon, error) {
	f := icon.StandardOnly()
	f.ModuleName = module
	found, err := s.icons.Find(ctx, f)
	if err != nil {
		return icon.Icon{}, fmt.Errorf("find standard icon %s: %w", module, err)
	}
	if len(found) == 0 {
		return icon.Icon{}, icon.NewNotFoundError(module, "", fmt.Sprintf("%s not found", module))
	}
	return found[0], nil
}

// standardModules returns the catalog module names in display order.
func (s *Service) standardModules(ctx context.Context) ([]string, error) {
	standard, err := s.icons.Find(ctx, icon.StandardOnly())
	if err != nil {
		return nil, fmt.Errorf("list standard icons: %w", err)
	}
	names := make([]string, len(standard))
	for i, ic := range standard {
		names[i] = ic.ModuleName
	}
	return names, nil
}
