package desktop

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/roach88/deskicons/internal/feed"
	"github.com/roach88/deskicons/internal/icon"
)

// SyncResult counts what one package sync changed.
type SyncResult struct {
	App       string `json:"app"`
	Created   int    `json:"created"`
	Updated   int    `json:"updated"`
	Unchanged int    `json:"unchanged"`
}

// Changed reports whether the sync wrote anything.
func (r SyncResult) Changed() bool {
	return r.Created > 0 || r.Updated > 0
}

// SyncFromSource upserts the catalog icons declared by package app. Icons
// are matched by module name and package; declared fields overwrite the
// stored ones and undeclared fields are left alone. A new icon takes its
// position in defs as idx unless one is declared.
//
// Repeating a sync with the same definitions changes nothing.
func (s *Service) SyncFromSource(ctx context.Context, app string, defs []feed.Definition) (SyncResult, error) {
	result := SyncResult{App: app}
	defer func() {
		if result.Changed() {
			s.cache.InvalidateAll()
		}
	}()

	for i, def := range defs {
		f := icon.StandardOnly()
		f.ModuleName = def.ModuleName
		f.App = app
		found, err := s.icons.Find(ctx, f)
		if err != nil {
			return result, fmt.Errorf("sync %s/%s: %w", app, def.ModuleName, err)
		}

		if len(found) > 0 {
			fields := declaredChanges(found[0], def)
			if len(fields) == 0 {
				result.Unchanged++
				continue
			}
			if err := s.icons.Update(ctx, found[0].ID, fields); err != nil {
				return result, fmt.Errorf("sync %s/%s: %w", app, def.ModuleName, err)
			}
			result.Updated++
			continue
		}

		ic := icon.Icon{
			ModuleName: def.ModuleName,
			Owner:      s.systemUser,
			Standard:   true,
			App:        app,
			Idx:        i,
		}
		applyDefinition(&ic, def)
		if _, err := s.icons.Create(ctx, ic); err != nil {
			return result, fmt.Errorf("sync %s/%s: %w", app, def.ModuleName, err)
		}
		result.Created++
	}

	s.logger.InfoContext(ctx, "synced desktop icons",
		"app", app, "created", result.Created, "updated", result.Updated, "unchanged", result.Unchanged)
	return result, nil
}

// SyncAll syncs the feed of every installed package. Packages without a
// feed are skipped. A failing package does not stop the others; all
// failures are returned together.
func (s *Service) SyncAll(ctx context.Context) ([]SyncResult, error) {
	var (
		results []SyncResult
		errs    *multierror.Error
	)
	for _, app := range s.apps {
		defs, ok, err := s.feeds.Load(app)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("load feed of %s: %w", app, err))
			continue
		}
		if !ok {
			s.logger.DebugContext(ctx, "no desktop icon feed", "app", app)
			continue
		}
		result, err := s.SyncFromSource(ctx, app, defs)
		results = append(results, result)
		if err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return results, errs.ErrorOrNil()
}

// applyDefinition copies every declared field of def onto ic.
func applyDefinition(ic *icon.Icon, def feed.Definition) {
	for f, v := range declaredFields(def) {
		switch f {
		case icon.FieldLabel:
			ic.Label = v.(string)
		case icon.FieldLink:
			ic.Link = v.(string)
		case icon.FieldRoute:
			ic.Route = v.(string)
		case icon.FieldType:
			ic.Type = v.(string)
		case icon.FieldIcon:
			ic.Icon = v.(string)
		case icon.FieldColor:
			ic.Color = v.(string)
		case icon.FieldDocType:
			ic.DocType = v.(string)
		case icon.FieldReverse:
			ic.Reverse = v.(bool)
		case icon.FieldHidden:
			ic.Hidden = v.(bool)
		case icon.FieldForceShow:
			ic.ForceShow = v.(bool)
		case icon.FieldIdx:
			ic.Idx = v.(int)
		}
	}
}

// declaredChanges returns the declared fields of def that differ from ic.
func declaredChanges(ic icon.Icon, def feed.Definition) icon.Fields {
	changes := icon.Fields{}
	for f, v := range declaredFields(def) {
		if fieldValue(ic, f) != v {
			changes[f] = v
		}
	}
	return changes
}

// declaredFields lists the fields def sets: non-empty strings and non-nil
// pointers.
func declaredFields(def feed.Definition) icon.Fields {
	fields := icon.Fields{}
	for f, v := range map[icon.Field]string{
		icon.FieldLabel:   def.Label,
		icon.FieldLink:    def.Link,
		icon.FieldRoute:   def.Route,
		icon.FieldType:    def.Type,
		icon.FieldIcon:    def.Icon,
		icon.FieldColor:   def.Color,
		icon.FieldDocType: def.DocType,
	} {
		if v != "" {
			fields[f] = v
		}
	}
	for f, v := range map[icon.Field]*bool{
		icon.FieldReverse:   def.Reverse,
		icon.FieldHidden:    def.Hidden,
		icon.FieldForceShow: def.ForceShow,
	} {
		if v != nil {
			fields[f] = *v
		}
	}
	if def.Idx != nil {
		fields[icon.FieldIdx] = *def.Idx
	}
	return fields
}

func fieldValue(ic icon.Icon, f icon.Field) any {
	switch f {
	case icon.FieldLabel:
		return ic.Label
	case icon.FieldLink:
		return ic.Link
	case icon.FieldRoute:
		return ic.Route
	case icon.FieldType:
		return ic.Type
	case icon.FieldIcon:
		return ic.Icon
	case icon.FieldColor:
		return ic.Color
	case icon.FieldDocType:
		return ic.DocType
	case icon.FieldReverse:
		return ic.Reverse
	case icon.FieldHidden:
		return ic.Hidden
	case icon.FieldForceShow:
		return ic.ForceShow
	case icon.FieldIdx:
		return ic.Idx
	}
	return nil
}
