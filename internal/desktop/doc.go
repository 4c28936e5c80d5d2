// Package desktop maintains each user's launcher icons on top of the shared
// catalog.
//
// Reads go through the cache; a miss loads the catalog, the user's own icons
// and their blocked modules, and merges them (see package merge). Writes go
// to the icon store first and invalidate the cache afterwards:
//
//   - writes scoped to one user drop that user's entries
//   - writes to the catalog (global hide, sync) flush every user
//
// User overrides are created lazily: the first customization of a catalog
// icon copies it into a record owned by the user (GetOrCreateOverride). The
// store's uniqueness constraint settles concurrent first customizations; the
// loser re-reads the winner's record.
package desktop
