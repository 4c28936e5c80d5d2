package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/deskicons/internal/icon"
)

const iconColumns = `id, module_name, owner, standard, custom, app, label, link, route,
	type, icon, color, reverse, doctype, idx, hidden, force_show`

// fieldTypes maps every updatable field to its column kind.
var fieldTypes = map[icon.Field]string{
	icon.FieldLabel:     "string",
	icon.FieldLink:      "string",
	icon.FieldRoute:     "string",
	icon.FieldType:      "string",
	icon.FieldIcon:      "string",
	icon.FieldColor:     "string",
	icon.FieldDocType:   "string",
	icon.FieldReverse:   "bool",
	icon.FieldHidden:    "bool",
	icon.FieldForceShow: "bool",
	icon.FieldIdx:       "int",
}

// Find returns the icons matching filter, ordered by idx then insertion.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) Find(ctx context.Context, filter icon.Filter) ([]icon.Icon, error) {
	var (
		where []string
		args  []any
	)
	if filter.Standard != nil {
		where = append(where, "standard = ?")
		args = append(args, boolToInt(*filter.Standard))
	}
	if filter.ModuleName != "" {
		where = append(where, "module_name = ?")
		args = append(args, filter.ModuleName)
	}
	if filter.Owner != "" {
		where = append(where, "owner = ?")
		args = append(args, filter.Owner)
	}
	if filter.App != "" {
		where = append(where, "app = ?")
		args = append(args, filter.App)
	}
	if filter.Link != "" {
		where = append(where, "link = ?")
		args = append(args, filter.Link)
	}

	query := "SELECT " + iconColumns + " FROM desktop_icons"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY idx ASC, seq ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find icons: %w", err)
	}
	defer rows.Close()

	icons := []icon.Icon{}
	for rows.Next() {
		ic, err := scanIcon(rows)
		if err != nil {
			return nil, err
		}
		icons = append(icons, ic)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate icons: %w", err)
	}

	return icons, nil
}

// Get retrieves a single icon by ID.
// Returns an icon.ErrCodeNotFound error if no such record exists.
func (s *Store) Get(ctx context.Context, id string) (icon.Icon, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+iconColumns+" FROM desktop_icons WHERE id = ?", id)
	ic, err := scanIcon(row)
	if errors.Is(err, sql.ErrNoRows) {
		return icon.Icon{}, icon.NewNotFoundError("", "", fmt.Sprintf("icon %s not found", id))
	}
	return ic, err
}

// Create inserts a new icon and returns its ID. An empty ID is generated,
// an empty label defaults to the module name.
//
// Returns an icon.ErrCodeConflict error if the record would violate a
// uniqueness constraint.
func (s *Store) Create(ctx context.Context, ic icon.Icon) (string, error) {
	if ic.ModuleName == "" {
		return "", fmt.Errorf("create icon: module name is required")
	}
	if ic.Owner == "" {
		return "", fmt.Errorf("create icon: owner is required")
	}
	if ic.ID == "" {
		ic.ID = s.ids.Generate()
	}
	if ic.Label == "" {
		ic.Label = ic.ModuleName
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO desktop_icons
		(`+iconColumns+`, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM desktop_icons))
	`,
		ic.ID,
		ic.ModuleName,
		ic.Owner,
		boolToInt(ic.Standard),
		boolToInt(ic.Custom),
		ic.App,
		ic.Label,
		ic.Link,
		ic.Route,
		ic.Type,
		ic.Icon,
		ic.Color,
		boolToInt(ic.Reverse),
		ic.DocType,
		ic.Idx,
		boolToInt(ic.Hidden),
		boolToInt(ic.ForceShow),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", icon.NewConflictError(ic.ModuleName, ic.Owner)
		}
		return "", fmt.Errorf("create icon: %w", err)
	}

	return ic.ID, nil
}

// Update applies a partial update to the icon with the given ID.
// Setting the label to "" restores the module name as label.
func (s *Store) Update(ctx context.Context, id string, fields icon.Fields) error {
	if len(fields) == 0 {
		return nil
	}

	// Sorted for stable statements.
	names := make([]string, 0, len(fields))
	for f := range fields {
		names = append(names, string(f))
	}
	sort.Strings(names)

	sets := make([]string, 0, len(names))
	args := make([]any, 0, len(names)+1)
	for _, name := range names {
		f := icon.Field(name)
		value, err := columnValue(f, fields[f])
		if err != nil {
			return fmt.Errorf("update icon %s: %w", id, err)
		}
		if f == icon.FieldLabel {
			sets = append(sets, "label = COALESCE(NULLIF(?, ''), module_name)")
		} else {
			sets = append(sets, name+" = ?")
		}
		args = append(args, value)
	}
	args = append(args, id)

	result, err := s.db.ExecContext(ctx,
		"UPDATE desktop_icons SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update icon %s: %w", id, err)
	}
	return requireAffected(result, id)
}

// Delete removes the icon with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM desktop_icons WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete icon %s: %w", id, err)
	}
	return requireAffected(result, id)
}

func requireAffected(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return icon.NewNotFoundError("", "", fmt.Sprintf("icon %s not found", id))
	}
	return nil
}

func columnValue(f icon.Field, v any) (any, error) {
	kind, ok := fieldTypes[f]
	if !ok {
		return nil, fmt.Errorf("unknown field %q", f)
	}
	switch kind {
	case "string":
		if s, ok := v.(string); ok {
			return s, nil
		}
	case "bool":
		if b, ok := v.(bool); ok {
			return boolToInt(b), nil
		}
	case "int":
		if i, ok := v.(int); ok {
			return i, nil
		}
	}
	return nil, fmt.Errorf("field %q: expected %s, got %T", f, kind, v)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIcon(row rowScanner) (icon.Icon, error) {
	var (
		ic                                           icon.Icon
		standard, custom, reverse, hidden, forceShow int
	)
	err := row.Scan(
		&ic.ID, &ic.ModuleName, &ic.Owner, &standard, &custom, &ic.App,
		&ic.Label, &ic.Link, &ic.Route, &ic.Type, &ic.Icon, &ic.Color,
		&reverse, &ic.DocType, &ic.Idx, &hidden, &forceShow,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return icon.Icon{}, err
		}
		return icon.Icon{}, fmt.Errorf("scan icon: %w", err)
	}
	ic.Standard = standard != 0
	ic.Custom = custom != 0
	ic.Reverse = reverse != 0
	ic.Hidden = hidden != 0
	ic.ForceShow = forceShow != 0
	return ic, nil
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
		se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
