package harness

import (
	"context"
	"fmt"

	"github.com/roach88/deskicons/internal/desktop"
	"github.com/roach88/deskicons/internal/icon"
	"github.com/roach88/deskicons/internal/merge"
)

// actionFunc runs one scenario action against the service.
type actionFunc func(ctx context.Context, svc *desktop.Service, args actionArgs) (map[string]any, error)

// actions maps scenario action names to service operations.
var actions = map[string]actionFunc{
	"sync":               syncAction,
	"get_icons":          getIconsAction,
	"boot":               bootAction,
	"set_hidden":         setHiddenAction,
	"set_hidden_list":    setHiddenListAction,
	"set_order":          setOrderAction,
	"add_custom_icon":    addCustomIconAction,
	"remove_custom_icon": removeCustomIconAction,
	"block":              blockAction,
	"unblock":            unblockAction,
}

func syncAction(ctx context.Context, svc *desktop.Service, _ actionArgs) (map[string]any, error) {
	results, err := svc.SyncAll(ctx)
	if err != nil {
		return nil, err
	}
	apps := make([]any, 0, len(results))
	for _, r := range results {
		apps = append(apps, map[string]any{
			"app":       r.App,
			"created":   r.Created,
			"updated":   r.Updated,
			"unchanged": r.Unchanged,
		})
	}
	return map[string]any{"apps": apps}, nil
}

func getIconsAction(ctx context.Context, svc *desktop.Service, args actionArgs) (map[string]any, error) {
	user, err := args.str("user")
	if err != nil {
		return nil, err
	}
	icons, err := svc.GetIcons(ctx, user)
	if err != nil {
		return nil, err
	}
	visible := merge.Visible(icons)
	hidden := make([]string, 0, len(icons)-len(visible))
	for _, ic := range icons {
		if ic.Hidden {
			hidden = append(hidden, ic.ModuleName)
		}
	}
	return map[string]any{
		"visible": list(moduleNames(visible)),
		"hidden":  list(hidden),
	}, nil
}

func bootAction(ctx context.Context, svc *desktop.Service, args actionArgs) (map[string]any, error) {
	user, err := args.str("user")
	if err != nil {
		return nil, err
	}
	info, err := svc.BootInfo(ctx, user)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"modules": list(info.Modules),
		"hidden":  list(info.Hidden),
	}, nil
}

func setHiddenAction(ctx context.Context, svc *desktop.Service, args actionArgs) (map[string]any, error) {
	module, err := args.str("module")
	if err != nil {
		return nil, err
	}
	user, err := args.optionalStr("user")
	if err != nil {
		return nil, err
	}
	hidden, err := args.boolean("hidden")
	if err != nil {
		return nil, err
	}
	return nil, svc.SetHidden(ctx, module, user, hidden)
}

func setHiddenListAction(ctx context.Context, svc *desktop.Service, args actionArgs) (map[string]any, error) {
	user, err := args.str("user")
	if err != nil {
		return nil, err
	}
	hidden, err := args.strs("hidden")
	if err != nil {
		return nil, err
	}
	return nil, svc.SetHiddenList(ctx, hidden, user)
}

func setOrderAction(ctx context.Context, svc *desktop.Service, args actionArgs) (map[string]any, error) {
	user, err := args.str("user")
	if err != nil {
		return nil, err
	}
	modules, err := args.strs("modules")
	if err != nil {
		return nil, err
	}
	return nil, svc.SetOrder(ctx, modules, user)
}

func addCustomIconAction(ctx context.Context, svc *desktop.Service, args actionArgs) (map[string]any, error) {
	user, err := args.str("user")
	if err != nil {
		return nil, err
	}
	var req desktop.CustomIcon
	for key, dst := range map[string]*string{
		"label":   &req.Label,
		"link":    &req.Link,
		"type":    &req.Type,
		"doctype": &req.DocType,
		"module":  &req.Module,
	} {
		if *dst, err = args.optionalStr(key); err != nil {
			return nil, err
		}
	}

	res, err := svc.AddCustomIcon(ctx, user, req)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"status":      string(res.Status),
		"module_name": res.Icon.ModuleName,
		"idx":         res.Icon.Idx,
		"color":       res.Icon.Color,
	}, nil
}

func removeCustomIconAction(ctx context.Context, svc *desktop.Service, args actionArgs) (map[string]any, error) {
	user, module, err := args.userModule()
	if err != nil {
		return nil, err
	}
	return nil, svc.RemoveCustomIcon(ctx, user, module)
}

func blockAction(ctx context.Context, svc *desktop.Service, args actionArgs) (map[string]any, error) {
	user, module, err := args.userModule()
	if err != nil {
		return nil, err
	}
	return nil, svc.BlockModule(ctx, user, module)
}

func unblockAction(ctx context.Context, svc *desktop.Service, args actionArgs) (map[string]any, error) {
	user, module, err := args.userModule()
	if err != nil {
		return nil, err
	}
	return nil, svc.UnblockModule(ctx, user, module)
}

// actionArgs are the YAML-decoded arguments of a step.
type actionArgs map[string]any

func (a actionArgs) str(key string) (string, error) {
	s, err := a.optionalStr(key)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", fmt.Errorf("argument %q is required", key)
	}
	return s, nil
}

func (a actionArgs) optionalStr(key string) (string, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q: expected string, got %T", key, v)
	}
	return s, nil
}

func (a actionArgs) boolean(key string) (bool, error) {
	v, ok := a[key]
	if !ok {
		return false, fmt.Errorf("argument %q is required", key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("argument %q: expected bool, got %T", key, v)
	}
	return b, nil
}

func (a actionArgs) strs(key string) ([]string, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("argument %q: expected list, got %T", key, v)
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("argument %q[%d]: expected string, got %T", key, i, item)
		}
		out = append(out, s)
	}
	return out, nil
}

func (a actionArgs) userModule() (string, string, error) {
	user, err := a.str("user")
	if err != nil {
		return "", "", err
	}
	module, err := a.str("module")
	if err != nil {
		return "", "", err
	}
	return user, module, nil
}

func moduleNames(icons []icon.Icon) []string {
	names := make([]string, len(icons))
	for i, ic := range icons {
		names[i] = ic.ModuleName
	}
	return names
}

// list converts names to the []any shape YAML expectations decode to.
func list(names []string) []any {
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}
