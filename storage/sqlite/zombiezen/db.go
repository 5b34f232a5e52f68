package zombiezen

import (
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const (
	// extract writes groups one at a time; the browse completer may read
	// while a table is shown
	poolSize = 2

	busyTimeoutMs = 5000
)

// NewPool opens the feature database at dbPath, creating it if needed.
// Connections share a WAL journal and wait on a locked database instead of
// failing at once.
func NewPool(dbPath string) (*sqlitex.Pool, error) {
	pool, err := sqlitex.NewPool("file:"+dbPath, sqlitex.PoolOptions{
		Flags:    sqlite.OpenReadWrite | sqlite.OpenCreate | sqlite.OpenWAL | sqlite.OpenURI,
		PoolSize: poolSize,
		PrepareConn: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteTransient(conn, fmt.Sprintf("PRAGMA busy_timeout = %d;", busyTimeoutMs), nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open feature database %s: %w", dbPath, err)
	}
	return pool, nil
}
