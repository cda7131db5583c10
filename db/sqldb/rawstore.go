package sqldb

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// RawSQLStore holds named raw statements, already rewritten for one dialect
type RawSQLStore struct {
	mu    sync.RWMutex
	stmts map[string]string
}

func NewRawStore() *RawSQLStore {
	return &RawSQLStore{stmts: make(map[string]string)}
}

func (s *RawSQLStore) Set(key string, rawStmt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stmts[key] = rawStmt
}

func (s *RawSQLStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stmt, exists := s.stmts[key]
	return stmt, exists
}

// Stmt returns the statement group.name or an error naming the missing key
func (s *RawSQLStore) Stmt(group string, name string) (string, error) {
	key := StoreGroupedStmtKey{Group: group, StmtName: name}.String()
	stmt, ok := s.Get(key)
	if !ok {
		return "", fmt.Errorf("raw sql stmt %q not loaded", key)
	}
	return stmt, nil
}

func (s *RawSQLStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stmts)
}

type StoreGroupedStmtKey struct {
	Group    string
	StmtName string
}

func (k StoreGroupedStmtKey) String() string {
	return k.Group + "." + k.StmtName
}

type GroupFS struct {
	Group string
	FS    fs.FS // must hold a `sql` dir
}

var (
	rawStoreRegistryMu sync.Mutex
	RawStoreRegistry   []GroupFS
)

// RegisterGroup makes the `sql/*` files of fsys available to every store loaded afterwards.
// Called from the init() of packages owning statements.
func RegisterGroup(fsys fs.FS, group string) {
	rawStoreRegistryMu.Lock()
	defer rawStoreRegistryMu.Unlock()
	for _, g := range RawStoreRegistry {
		if g.Group == group {
			return
		}
	}
	RawStoreRegistry = append(RawStoreRegistry, GroupFS{FS: fsys, Group: group})
}

// LoadRawStmtsToStore loads every registered group for one dialect.
// `name.<dbtype>` files are used as-is; `name.sql` files are standard SQL with `?` (static)
// and `??` (dynamic) placeholders, rewritten for the dialect, and lose to a dialect file.
func LoadRawStmtsToStore(store *RawSQLStore, dbtype string, placeholderPrefix byte) error {
	rawStoreRegistryMu.Lock()
	groups := append([]GroupFS(nil), RawStoreRegistry...)
	rawStoreRegistryMu.Unlock()

	groupCnt := 0
	stmtCnt := 0
	for _, groupFS := range groups {
		files, err := fs.ReadDir(groupFS.FS, "sql")
		if err != nil {
			return fmt.Errorf("failed to read embedded `sql` dir of %s: %w", groupFS.Group, err)
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			filename := f.Name()
			ext := path.Ext(filename)
			name := strings.TrimSuffix(filename, ext)
			ext = strings.TrimPrefix(ext, ".")
			if ext != dbtype && ext != "sql" {
				continue
			}
			data, err := fs.ReadFile(groupFS.FS, path.Join("sql", filename))
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", filename, err)
			}
			groupedStmtKey := StoreGroupedStmtKey{Group: groupFS.Group, StmtName: name}.String()

			switch ext {
			case dbtype:
				// exact matching file extension -> use it as-is for dialects
				store.Set(groupedStmtKey, string(data))
				stmtCnt++
			case "sql":
				if _, exists := store.Get(groupedStmtKey); !exists {
					store.Set(groupedStmtKey, ReplaceStaticPlaceholders(string(data), placeholderPrefix))
					stmtCnt++
				}
			}
		}
		groupCnt++
	}
	zap.L().Info("sql raw stmts loaded",
		zap.String("component", "sqldb"),
		zap.String("dbtype", dbtype),
		zap.Int("stmts", stmtCnt),
		zap.Int("groups", groupCnt))
	return nil
}
