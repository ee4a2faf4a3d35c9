//go:build cgo

package graph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements the Store interface using KuzuDB as the graph backend.
// It requires CGO because the go-kuzu driver wraps KuzuDB's C library.
type KuzuStore struct {
	mu   sync.Mutex
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at the
// given directory path. KuzuDB creates the leaf itself for new databases.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return openKuzu(dbPath)
}

func openKuzu(path string) (*KuzuStore, error) {
	db, err := kuzu.OpenDatabase(path, kuzu.DefaultSystemConfig())
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	if s.db != nil {
		s.db.Close()
		s.db = nil
	}
	return nil
}

// ---------- Schema setup ----------

// ddlStatements defines the Cypher DDL executed by InitSchema.
// Node tables must precede relationship tables.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS File(
		path STRING,
		language STRING,
		loc INT64,
		PRIMARY KEY(path)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Dependency(
		token STRING,
		external BOOLEAN,
		PRIMARY KEY(token)
	)`,
	`CREATE REL TABLE IF NOT EXISTS DEPENDS_ON(FROM File TO Dependency, ordinal INT64)`,
}

// InitSchema creates all node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// ---------- Write operations ----------

// AddFile upserts a File node.
func (s *KuzuStore) AddFile(_ context.Context, node FileNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exec(
		`MERGE (f:File {path: $path})
		ON CREATE SET f.language = $lang, f.loc = $loc
		ON MATCH SET f.language = $lang, f.loc = $loc`,
		map[string]any{
			"path": node.Path,
			"lang": node.Language,
			"loc":  int64(node.LOC),
		},
	)
}

// SetDependencies replaces the DEPENDS_ON edges of path with tokens, in
// order. Unknown files are created with no metadata. The replacement runs in
// one transaction, so a failure leaves the previous edges in place.
func (s *KuzuStore) SetDependencies(_ context.Context, path string, tokens []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inTx(func() error { return s.setDependencies(path, tokens) })
}

func (s *KuzuStore) setDependencies(path string, tokens []string) error {
	p := map[string]any{"path": path}
	if err := s.exec(
		`MERGE (f:File {path: $path})
		ON CREATE SET f.language = '', f.loc = 0`, p); err != nil {
		return err
	}
	if err := s.exec(`MATCH (f:File {path: $path})-[r:DEPENDS_ON]->(:Dependency) DELETE r`, p); err != nil {
		return err
	}

	for i, token := range tokens {
		dep := NewDependencyNode(token)
		if err := s.exec(
			`MERGE (d:Dependency {token: $token})
			ON CREATE SET d.external = $external`,
			map[string]any{"token": dep.Token, "external": dep.External},
		); err != nil {
			return err
		}
		if err := s.exec(
			`MATCH (f:File {path: $path}), (d:Dependency {token: $token})
			CREATE (f)-[:DEPENDS_ON {ordinal: $ord}]->(d)`,
			map[string]any{"path": path, "token": token, "ord": int64(i)},
		); err != nil {
			return err
		}
	}
	return nil
}

// inTx runs fn inside a manual transaction, rolling back when fn fails.
// Callers hold s.mu.
func (s *KuzuStore) inTx(fn func() error) error {
	if err := s.run("BEGIN TRANSACTION"); err != nil {
		return err
	}
	if err := fn(); err != nil {
		if rbErr := s.run("ROLLBACK"); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	return s.run("COMMIT")
}

// ---------- Read operations ----------

// GetFile retrieves a single File node by path, or returns nil if not found.
func (s *KuzuStore) GetFile(_ context.Context, path string) (*FileNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.query(
		"MATCH (f:File {path: $path}) RETURN f.path, f.language, f.loc",
		map[string]any{"path": path},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	r := rows[0]
	return &FileNode{
		Path:     toString(r[0]),
		Language: toString(r[1]),
		LOC:      toInt(r[2]),
	}, nil
}

// Files returns every File node sorted by path.
func (s *KuzuStore) Files(_ context.Context) ([]FileNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.query("MATCH (f:File) RETURN f.path, f.language, f.loc ORDER BY f.path", nil)
	if err != nil {
		return nil, err
	}
	out := make([]FileNode, 0, len(rows))
	for _, r := range rows {
		out = append(out, FileNode{
			Path:     toString(r[0]),
			Language: toString(r[1]),
			LOC:      toInt(r[2]),
		})
	}
	return out, nil
}

// Dependencies returns the tokens of path in scan order.
func (s *KuzuStore) Dependencies(_ context.Context, path string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.query(
		`MATCH (f:File {path: $path})-[r:DEPENDS_ON]->(d:Dependency)
		RETURN d.token ORDER BY r.ordinal`,
		map[string]any{"path": path},
	)
	if err != nil {
		return nil, err
	}
	return firstColumn(rows), nil
}

// Dependents returns the sorted paths of files that depend on token.
func (s *KuzuStore) Dependents(_ context.Context, token string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.query(
		`MATCH (f:File)-[:DEPENDS_ON]->(d:Dependency {token: $token})
		RETURN DISTINCT f.path ORDER BY f.path`,
		map[string]any{"token": token},
	)
	if err != nil {
		return nil, err
	}
	return firstColumn(rows), nil
}

// Stats returns node and edge counts. Dependencies no file points to are
// not counted.
func (s *KuzuStore) Stats(_ context.Context) (*GraphStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats GraphStats
	counts := []struct {
		cypher string
		dst    *int
	}{
		{"MATCH (f:File) RETURN count(f)", &stats.FileCount},
		{"MATCH ()-[r:DEPENDS_ON]->() RETURN count(r)", &stats.EdgeCount},
		{"MATCH ()-[:DEPENDS_ON]->(d:Dependency) RETURN count(DISTINCT d)", &stats.DependencyCount},
		{"MATCH ()-[:DEPENDS_ON]->(d:Dependency) WHERE d.external RETURN count(DISTINCT d)", &stats.ExternalCount},
	}
	for _, c := range counts {
		rows, err := s.query(c.cypher, nil)
		if err != nil {
			return nil, fmt.Errorf("kuzu: stats: %w", err)
		}
		if len(rows) > 0 && len(rows[0]) > 0 {
			*c.dst = toInt(rows[0][0])
		}
	}
	return &stats, nil
}

// ---------- Internal helpers ----------

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// run executes a statement that takes no parameters.
func (s *KuzuStore) run(cypher string) error {
	res, err := s.conn.Query(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: %s: %w", cypher, err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

func firstColumn(rows [][]any) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if len(r) > 0 {
			out = append(out, toString(r[0]))
		}
	}
	return out
}

// KuzuDB returns typed Go values (int64, float64, bool, string).

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
