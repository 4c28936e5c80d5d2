package store

import (
	"context"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// BlockedModules returns the modules user may not see.
// Returns an empty set if the user has no blocks.
func (s *Store) BlockedModules(ctx context.Context, user string) (mapset.Set[string], error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT module_name FROM blocked_modules
		WHERE owner = ?
		ORDER BY module_name COLLATE BINARY ASC
	`, user)
	if err != nil {
		return nil, fmt.Errorf("query blocked modules: %w", err)
	}
	defer rows.Close()

	blocked := mapset.NewThreadUnsafeSet[string]()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan blocked module: %w", err)
		}
		blocked.Add(name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocked modules: %w", err)
	}

	return blocked, nil
}

// BlockModule hides module from user regardless of any other setting.
// Blocking an already blocked module is a no-op.
func (s *Store) BlockModule(ctx context.Context, user, module string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blocked_modules (owner, module_name)
		VALUES (?, ?)
		ON CONFLICT(owner, module_name) DO NOTHING
	`, user, module)
	if err != nil {
		return fmt.Errorf("block module: %w", err)
	}
	return nil
}

// UnblockModule removes a block. Removing a missing block is a no-op.
func (s *Store) UnblockModule(ctx context.Context, user, module string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM blocked_modules WHERE owner = ? AND module_name = ?
	`, user, module)
	if err != nil {
		return fmt.Errorf("unblock module: %w", err)
	}
	return nil
}
