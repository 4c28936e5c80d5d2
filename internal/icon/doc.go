// Package icon defines the launcher icon data model shared by every layer.
//
// Two kinds of records live in the same shape, told apart by Standard:
//   - Standard icons form the shared catalog, one per module, owned by the
//     system identity and written only by catalog sync.
//   - User icons are per-user overrides of a standard icon (copy-on-write) or
//     custom shortcuts the user added (Custom=true).
//
// HiddenByCatalog is set only on merged views and is never persisted.
package icon
