package tree

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"

	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS options (
	id        INTEGER PRIMARY KEY,
	parent_id INTEGER REFERENCES options(id) ON DELETE CASCADE,
	value     TEXT    NOT NULL,
	label     TEXT    NOT NULL DEFAULT '',
	disabled  INTEGER NOT NULL DEFAULT 0,
	is_leaf   INTEGER,
	position  INTEGER NOT NULL DEFAULT 0,
	UNIQUE (parent_id, value)
);
CREATE INDEX IF NOT EXISTS options_parent ON options(parent_id, position);`

// SQLiteLoader serves an option tree stored in a SQLite table. Every
// non-leaf row is returned without children, so each level is queried
// only when the user opens it.
type SQLiteLoader struct {
	sqlDB *sql.DB
}

// OpenSQLite opens (creating when needed) the database at path.
func OpenSQLite(path string) (*SQLiteLoader, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite db")
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "ping sqlite db")
	}
	if _, err := sqlDB.Exec(sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "apply schema")
	}
	return &SQLiteLoader{sqlDB: sqlDB}, nil
}

// Close closes the database handle.
func (s *SQLiteLoader) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Roots returns the top-level options.
func (s *SQLiteLoader) Roots(ctx context.Context) (cascade.Tree, error) {
	children, err := s.childrenOf(ctx, sql.NullInt64{})
	if err != nil {
		return nil, err
	}
	return cascade.Tree(children), nil
}

// Children resolves the request path row by row and lists the children of
// the last one.
func (s *SQLiteLoader) Children(ctx context.Context, req cascade.LoadRequest) ([]*cascade.Option, error) {
	if s == nil || s.sqlDB == nil {
		return nil, errors.New("sqlite loader is not open")
	}
	parent := sql.NullInt64{}
	for _, value := range req.Path() {
		var id int64
		err := s.sqlDB.QueryRowContext(ctx,
			`SELECT id FROM options WHERE parent_id IS ? AND value = ?`,
			parent, value,
		).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(ErrUnknownValue, "%q under %q", value, req.Path().String())
		}
		if err != nil {
			return nil, errors.Wrap(err, "resolve path")
		}
		parent = sql.NullInt64{Int64: id, Valid: true}
	}
	return s.childrenOf(ctx, parent)
}

func (s *SQLiteLoader) childrenOf(ctx context.Context, parent sql.NullInt64) ([]*cascade.Option, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT o.value, o.label, o.disabled, o.is_leaf,
		        EXISTS (SELECT 1 FROM options c WHERE c.parent_id = o.id)
		   FROM options o
		  WHERE o.parent_id IS ?
		  ORDER BY o.position, o.id`,
		parent,
	)
	if err != nil {
		return nil, errors.Wrap(err, "query children")
	}
	defer rows.Close()

	out := make([]*cascade.Option, 0, 8)
	for rows.Next() {
		var (
			opt         cascade.Option
			disabled    bool
			isLeaf      sql.NullBool
			hasChildren bool
		)
		if err := rows.Scan(&opt.Value, &opt.Label, &disabled, &isLeaf, &hasChildren); err != nil {
			return nil, errors.Wrap(err, "scan option")
		}
		if opt.Label == "" {
			opt.Label = opt.Value
		}
		opt.Disabled = disabled
		switch {
		case isLeaf.Valid:
			opt.IsLeaf = cascade.Bool(isLeaf.Bool)
		default:
			opt.IsLeaf = cascade.Bool(!hasChildren)
		}
		out = append(out, &opt)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate options")
	}
	return out, nil
}

// Insert adds opt below the option at parent, or at the root when parent
// is empty. Used to seed databases.
func (s *SQLiteLoader) Insert(ctx context.Context, parent cascade.Path, opt cascade.Option, position int) error {
	parentID := sql.NullInt64{}
	for _, value := range parent {
		var id int64
		err := s.sqlDB.QueryRowContext(ctx,
			`SELECT id FROM options WHERE parent_id IS ? AND value = ?`, parentID, value,
		).Scan(&id)
		if err != nil {
			return errors.Wrapf(err, "resolve parent %q", parent.String())
		}
		parentID = sql.NullInt64{Int64: id, Valid: true}
	}
	var isLeaf sql.NullBool
	if opt.IsLeaf != nil {
		isLeaf = sql.NullBool{Bool: *opt.IsLeaf, Valid: true}
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO options (parent_id, value, label, disabled, is_leaf, position) VALUES (?, ?, ?, ?, ?, ?)`,
		parentID, opt.Value, opt.Label, opt.Disabled, isLeaf, position,
	)
	return errors.Wrapf(err, "insert %q", opt.Value)
}
