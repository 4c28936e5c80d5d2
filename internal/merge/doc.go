// Package merge combines one user's icon overrides with the shared catalog
// into the ordered list shown on that user's desktop.
//
// Merge is pure: it never touches a store and never mutates its inputs.
//
// # Precedence
//
// Presentation fields (see catalogFields) are pushed from the catalog into
// the user's copy whenever the catalog defines them. Visibility is resolved
// by visibilityRules, first match wins:
//
//  1. catalog hidden      -> hidden, flagged HiddenByCatalog
//  2. catalog force_show  -> visible
//  3. otherwise           -> the user's own hidden flag
//
// Access control is applied after everything else and cannot be undone by
// any rule: a blocked module is always hidden.
package merge
