package zombiezen

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/revelaction/corpstat/feature"
	"github.com/revelaction/corpstat/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// TableStore keeps the feature tables of all groups in one SQLite file.
// Every table written by a store carries the store's run id.
type TableStore struct {
	pool  *sqlitex.Pool
	runID string
}

var _ storage.TableRepository = (*TableStore)(nil)

func NewTableStore(pool *sqlitex.Pool) *TableStore {
	id := ulid.MustNew(ulid.Now(), ulid.Monotonic(rand.Reader, 0))
	return &TableStore{pool: pool, runID: id.String()}
}

// RunID identifies the tables written by this store.
func (h *TableStore) RunID() string {
	return h.runID
}

func (h *TableStore) Write(ctx context.Context, t feature.Table) (err error) {
	conn, err := h.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	defer sqlitex.Save(conn)(&err)

	err = sqlitex.Execute(conn, "DELETE FROM feature_rows WHERE grp = ?", &sqlitex.ExecOptions{
		Args: []interface{}{t.Group},
	})
	if err != nil {
		return fmt.Errorf("failed to delete rows of %s: %w", t.Group, err)
	}

	for _, r := range t.Rows {
		err = sqlitex.Execute(conn, `INSERT INTO feature_rows
			(grp, filename, rel_noun, rel_verb, rel_adj, rel_adv, unique_per, unique_loc, unique_org, run_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, &sqlitex.ExecOptions{
			Args: []interface{}{t.Group, r.Filename, r.Noun, r.Verb, r.Adj, r.Adv, r.Person, r.Loc, r.Org, h.runID},
		})
		if err != nil {
			return fmt.Errorf("failed to insert row %s: %w", r.Filename, err)
		}
	}

	err = sqlitex.Execute(conn, `INSERT INTO feature_groups (grp, run_id, written_at) VALUES (?, ?, ?)
		ON CONFLICT(grp) DO UPDATE SET run_id = excluded.run_id, written_at = excluded.written_at`, &sqlitex.ExecOptions{
		Args: []interface{}{t.Group, h.runID, time.Now().UTC().Format(time.RFC3339)},
	})
	if err != nil {
		return fmt.Errorf("failed to register group %s: %w", t.Group, err)
	}

	return nil
}

func (h *TableStore) Groups(ctx context.Context) ([]string, error) {
	conn, err := h.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	groups := []string{}
	err = sqlitex.Execute(conn, "SELECT grp FROM feature_groups ORDER BY grp", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			groups = append(groups, stmt.ColumnText(0))
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (h *TableStore) Read(ctx context.Context, group string) (feature.Table, error) {
	conn, err := h.pool.Take(ctx)
	if err != nil {
		return feature.Table{}, err
	}
	defer h.pool.Put(conn)

	found := false
	err = sqlitex.Execute(conn, "SELECT 1 FROM feature_groups WHERE grp = ?", &sqlitex.ExecOptions{
		Args: []interface{}{group},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			return nil
		},
	})
	if err != nil {
		return feature.Table{}, err
	}
	if !found {
		return feature.Table{}, fmt.Errorf("%s: %w", group, storage.ErrNotFound)
	}

	t := feature.NewTable(group)
	err = sqlitex.Execute(conn, `SELECT filename, rel_noun, rel_verb, rel_adj, rel_adv, unique_per, unique_loc, unique_org
		FROM feature_rows WHERE grp = ? ORDER BY filename`, &sqlitex.ExecOptions{
		Args: []interface{}{group},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			t.Add(feature.Row{
				Filename: stmt.ColumnText(0),
				Noun:     stmt.ColumnFloat(1),
				Verb:     stmt.ColumnFloat(2),
				Adj:      stmt.ColumnFloat(3),
				Adv:      stmt.ColumnFloat(4),
				Person:   stmt.ColumnInt(5),
				Loc:      stmt.ColumnInt(6),
				Org:      stmt.ColumnInt(7),
			})
			return nil
		},
	})
	if err != nil {
		return feature.Table{}, err
	}

	return t, nil
}
