package merge

import "github.com/roach88/deskicons/internal/icon"

// fieldRule copies one presentation field from the catalog entry onto the
// user's copy when the catalog value is non-empty.
type fieldRule struct {
	field icon.Field
	get   func(*icon.Icon) *string
}

// catalogFields lists the fields where a non-empty catalog value wins over
// the user's (possibly stale or blank) copy.
var catalogFields = []fieldRule{
	{icon.FieldRoute, func(ic *icon.Icon) *string { return &ic.Route }},
	{icon.FieldLabel, func(ic *icon.Icon) *string { return &ic.Label }},
	{icon.FieldColor, func(ic *icon.Icon) *string { return &ic.Color }},
	{icon.FieldIcon, func(ic *icon.Icon) *string { return &ic.Icon }},
	{icon.FieldLink, func(ic *icon.Icon) *string { return &ic.Link }},
}

// visibilityRule decides the hidden flag of an overlaid icon. A rule that
// does not apply returns ok=false and the next rule is consulted.
type visibilityRule struct {
	name  string
	apply func(user, standard icon.Icon) (hidden, byCatalog, ok bool)
}

var visibilityRules = []visibilityRule{
	{
		name: "catalog-hidden",
		apply: func(_, standard icon.Icon) (bool, bool, bool) {
			return true, true, standard.Hidden
		},
	},
	{
		name: "force-show",
		apply: func(_, standard icon.Icon) (bool, bool, bool) {
			return false, false, standard.ForceShow
		},
	},
	{
		name: "user-hidden",
		apply: func(user, _ icon.Icon) (bool, bool, bool) {
			return user.Hidden, false, true
		},
	},
}

// overlay pushes catalog values onto the user's copy and resolves its
// visibility.
func overlay(user, standard icon.Icon) icon.Icon {
	for _, rule := range catalogFields {
		if v := *rule.get(&standard); v != "" {
			*rule.get(&user) = v
		}
	}
	for _, rule := range visibilityRules {
		if hidden, byCatalog, ok := rule.apply(user, standard); ok {
			user.Hidden = hidden
			user.HiddenByCatalog = byCatalog
			break
		}
	}
	return user
}
