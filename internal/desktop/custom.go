package desktop

import (
	"context"
	"fmt"

	"github.com/roach88/deskicons/internal/icon"
)

// CustomIcon describes a shortcut a user adds to their desktop.
type CustomIcon struct {
	Label   string
	Link    string
	Type    string
	DocType string

	// Module, when it names a catalog entry, lends its glyph and color.
	Module string
}

// AddStatus tells how AddCustomIcon satisfied the request.
type AddStatus string

const (
	AddStatusAdded    AddStatus = "added"
	AddStatusRestored AddStatus = "restored"
)

// AddResult is the outcome of AddCustomIcon.
type AddResult struct {
	Status AddStatus `json:"status"`
	Icon   icon.Icon `json:"icon"`
}

// AddCustomIcon puts a shortcut to req.Link on user's desktop.
//
// A hidden icon of the user with the same link is shown again instead of
// creating a second one. A visible one yields an icon.ErrCodeAlreadyExists
// error, which callers report as information: nothing changed. A label that
// names another icon of the user yields icon.ErrCodeNameTaken.
func (s *Service) AddCustomIcon(ctx context.Context, user string, req CustomIcon) (AddResult, error) {
	if user == "" {
		return AddResult{}, fmt.Errorf("add custom icon: user is required")
	}
	if req.Label == "" || req.Link == "" {
		return AddResult{}, fmt.Errorf("add custom icon: label and link are required")
	}

	f := icon.OwnedBy(user)
	f.Link = req.Link
	existing, err := s.icons.Find(ctx, f)
	if err != nil {
		return AddResult{}, fmt.Errorf("add custom icon: %w", err)
	}
	if len(existing) > 0 {
		ic := existing[0]
		if !ic.Hidden {
			return AddResult{Icon: ic}, icon.NewAlreadyExistsError(ic.ModuleName, user)
		}
		if err := s.icons.Update(ctx, ic.ID, icon.Fields{icon.FieldHidden: false}); err != nil {
			return AddResult{}, fmt.Errorf("add custom icon: %w", err)
		}
		s.cache.Invalidate(user)
		ic.Hidden = false
		return AddResult{Status: AddStatusRestored, Icon: ic}, nil
	}

	idx, err := s.NextIdx(ctx, user)
	if err != nil {
		return AddResult{}, err
	}

	ic := icon.Icon{
		ModuleName: req.Label,
		Label:      req.Label,
		Link:       req.Link,
		Type:       req.Type,
		DocType:    req.DocType,
		Owner:      user,
		Idx:        idx,
		Custom:     true,
	}
	if err := s.applyColor(ctx, &ic, req.Module); err != nil {
		return AddResult{}, err
	}

	id, err := s.icons.Create(ctx, ic)
	if icon.IsConflict(err) {
		return s.resolveAddConflict(ctx, user, ic)
	}
	if err != nil {
		return AddResult{}, fmt.Errorf("add custom icon: %w", err)
	}
	ic.ID = id
	s.cache.Invalidate(user)

	s.logger.InfoContext(ctx, "added custom icon", "user", user, "module", ic.ModuleName, "link", ic.Link)
	return AddResult{Status: AddStatusAdded, Icon: ic}, nil
}

// resolveAddConflict explains a uniqueness violation on custom icon create
// by looking up the record that holds the module name.
func (s *Service) resolveAddConflict(ctx context.Context, user string, ic icon.Icon) (AddResult, error) {
	holder, ok, err := s.findOverride(ctx, ic.ModuleName, user)
	if err != nil {
		return AddResult{Icon: ic}, err
	}
	if !ok {
		return AddResult{Icon: ic}, fmt.Errorf("add custom icon %s: conflicting icon disappeared", ic.ModuleName)
	}
	if holder.Link == ic.Link {
		return AddResult{Icon: holder}, icon.NewAlreadyExistsError(holder.ModuleName, user)
	}
	return AddResult{Icon: holder}, icon.NewNameTakenError(holder.ModuleName, user, holder.Link)
}

// applyColor takes glyph and color from the catalog entry of module, or
// draws a palette color when there is none.
func (s *Service) applyColor(ctx context.Context, ic *icon.Icon, module string) error {
	if module != "" {
		std, err := s.findStandard(ctx, module)
		if err == nil {
			ic.Icon = std.Icon
			ic.Color = std.Color
			ic.Reverse = std.Reverse
			return nil
		}
		if !icon.IsNotFound(err) {
			return err
		}
	}
	sw := s.pickSwatch()
	ic.Color = sw.Color
	ic.Reverse = sw.Reverse
	return nil
}

// RemoveCustomIcon deletes a custom icon of user.
// Returns an icon.ErrCodeNotFound error if user has no custom icon named module.
func (s *Service) RemoveCustomIcon(ctx context.Context, user, module string) error {
	ic, ok, err := s.findOverride(ctx, module, user)
	if err != nil {
		return err
	}
	if !ok || !ic.Custom {
		return icon.NewNotFoundError(module, user, "no custom icon")
	}
	if err := s.icons.Delete(ctx, ic.ID); err != nil {
		return fmt.Errorf("remove custom icon %s: %w", module, err)
	}
	s.cache.Invalidate(user)
	return nil
}
