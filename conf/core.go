package conf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/zeptools/jewel-docs/artifacts"
	"github.com/zeptools/jewel-docs/assets"
	"github.com/zeptools/jewel-docs/db"
	"github.com/zeptools/jewel-docs/db/kvdb"
	_ "github.com/zeptools/jewel-docs/db/kvdb/impls/memory"
	_ "github.com/zeptools/jewel-docs/db/kvdb/impls/redis"
	"github.com/zeptools/jewel-docs/db/sqldb"
	_ "github.com/zeptools/jewel-docs/db/sqldb/impls/mysql"
	_ "github.com/zeptools/jewel-docs/db/sqldb/impls/pgsql"
	"github.com/zeptools/jewel-docs/db/sqldb/impls/sqlite"
	"github.com/zeptools/jewel-docs/docgen"
	"github.com/zeptools/jewel-docs/document"
	"github.com/zeptools/jewel-docs/layout"
	"github.com/zeptools/jewel-docs/records"
	"github.com/zeptools/jewel-docs/schedjobs"
	"github.com/zeptools/jewel-docs/sec"
	"github.com/zeptools/jewel-docs/sharing"
	"github.com/zeptools/jewel-docs/storages"
	"github.com/zeptools/jewel-docs/svc"
	"github.com/zeptools/jewel-docs/throttle"
	"github.com/zeptools/jewel-docs/tpl"
	"github.com/zeptools/jewel-docs/web"
)

const (
	ConfDir        = "config"
	CoreFile       = ".core.json"
	StoragesFile   = ".storages.json"
	SQLDBFile      = ".sql-databases.json"
	KVDBFile       = ".kv-databases.json"
	SecurityFile   = ".security.json"
	LetterheadFile = ".letterhead.json"

	RecordsDB = "records" // .sql-databases.json entry used by the record store
)

var ErrSecurityNotConfigured = errors.New("security config missing")

type DebugOpts struct {
	Verbose bool `json:"verbose"` // debug level logs
}

// ThrottleConf is the per-IP budget of POST /api/documents
type ThrottleConf struct {
	Burst  int    `json:"burst"`
	Period string `json:"period"` // one token per Period, e.g. "6s"
}

type SecurityConf struct {
	JWTSecret string `json:"jwt_secret"` // at least 32 bytes
	ShareKey  string `json:"share_key"`  // 32 bytes; hex or base64
	Issuer    string `json:"issuer"`
}

// Core - common config and the application's long-lived components
type Core struct {
	AppName             string                              `json:"app_name"`
	Listen              string                              `json:"listen"`      // HTTP Server Listen IP:PORT Address
	Host                string                              `json:"host"`        // public base url for share links, e.g. https://docs.example.com
	TrustProxy          bool                                `json:"trust_proxy"` // honour X-Forwarded-For / X-Real-IP
	Throttle            ThrottleConf                        `json:"throttle"`
	DebugOpts           DebugOpts                           `json:"debug_opts"` // Debug Options
	AppRoot             string                              `json:"-"`
	RootCtx             context.Context                     `json:"-"` // Global Context with RootCancel
	RootCancel          context.CancelFunc                  `json:"-"` // CancelFunc for RootCtx
	JobScheduler        *schedjobs.Scheduler                `json:"-"` // PrepareJobScheduler
	WebService          *web.Service                        `json:"-"` // PrepareWebService
	ThrottleBucketStore *throttle.BucketStore[string]       `json:"-"` // PrepareThrottleBucketStore
	ConfWatcher         *Watcher                            `json:"-"` // WatchLetterhead
	StorageConf         storages.Conf                       `json:"-"` // PrepareStorages
	KVDBConf            kvdb.Conf                           `json:"-"` // loadKVDBConf
	BackendKVDBClient   kvdb.Client                         `json:"-"` // PrepareKVDatabase
	SQLDBConfs          map[string]*sqldb.Conf              `json:"-"` // loadSQLDBConfs
	BackendSQLDBClients map[string]sqldb.Client             `json:"-"` // PrepareSQLDatabases
	SecurityConf        SecurityConf                        `json:"-"` // PrepareSecurity
	TokenIssuer         *sec.TokenIssuer                    `json:"-"` // PrepareSecurity
	ShareCipher         *sec.XChaCha20Poly1305Cipher        `json:"-"` // PrepareSecurity
	Letterhead          atomic.Pointer[document.Letterhead] `json:"-"` // [Hot Reload] PrepareLetterhead
	HTMLTemplateStore   *tpl.HTMLTemplateStore              `json:"-"` // PrepareHTMLTemplateStore
	Records             *records.Store                      `json:"-"` // PrepareRecords
	Locator             *artifacts.Locator                  `json:"-"` // PrepareDocuments
	Discovery           *artifacts.Discovery                `json:"-"` // PrepareDocuments
	Renderer            *layout.Renderer                    `json:"-"` // PrepareDocuments
	Generator           *docgen.Generator                   `json:"-"` // PrepareDocuments
	Shares              *sharing.Service                    `json:"-"` // PrepareShares

	services []svc.Service // Services to Manage
	done     chan error
}

// BaseInit - 1st step for initialization
// 1. set AppRoot
// 2. load config/.core.json file if present
// 3. start the shutdown signal listener
func (c *Core) BaseInit(appRoot string, rootCtx context.Context, rootCancel context.CancelFunc) error {
	c.AppRoot = appRoot
	if _, err := c.readConfFile(CoreFile, c); err != nil {
		return err
	}
	if c.AppName == "" {
		c.AppName = "ksdocs"
	}
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	c.RootCtx = rootCtx
	c.RootCancel = rootCancel
	c.startShutdownSignalListener()
	return nil
}

// ConfPath is {AppRoot}/config/{name}
func (c *Core) ConfPath(name string) string {
	return filepath.Join(c.AppRoot, ConfDir, name)
}

// readConfFile decodes a config file into v. A missing file is not an error: found is false.
func (c *Core) readConfFile(name string, v any) (found bool, err error) {
	confBytes, err := os.ReadFile(c.ConfPath(name))
	if errors.Is(err, fs.ErrNotExist) {
		zap.L().Debug("config file not found, using defaults", zap.String("component", "conf"), zap.String("file", name))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err = json.Unmarshal(confBytes, v); err != nil {
		return true, fmt.Errorf("%s: %w", name, err)
	}
	return true, nil
}

func (c *Core) AddService(s svc.Service) {
	c.services = append(c.services, s)
	zap.L().Info("service added", zap.String("component", "core"), zap.String("service", s.Name()), zap.Int("total", len(c.services)))
}

func (c *Core) StartServices() error {
	c.done = make(chan error, len(c.services))
	for _, s := range c.services {
		err := s.Start()
		if err != nil {
			return fmt.Errorf("start %s: %w", s.Name(), err)
		}
		go func(s svc.Service) {
			err := <-s.Done()
			if err != nil {
				err = fmt.Errorf("%s: %w", s.Name(), err)
			}
			c.done <- err
		}(s) // pass the loop var to the param. otherwise, they are captured inside goroutine lazily
	}
	return nil
}

// WaitServicesDone blocks until every service reported done. The first error is returned;
// when a service fails, the others are stopped through RootCancel.
func (c *Core) WaitServicesDone() error {
	var first error
	for i := 0; i < len(c.services); i++ {
		if err := <-c.done; err != nil && first == nil {
			first = err
			if c.RootCancel != nil {
				c.RootCancel()
			}
		}
	}
	return first
}

func (c *Core) StopServices() {
	for _, s := range c.services {
		s.Stop()
	}
}

var once sync.Once

func (c *Core) startShutdownSignalListener() {
	once.Do(func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigs
			zap.L().Info("got signal. shutting down", zap.String("component", "core"), zap.Stringer("signal", sig), zap.String("app", c.AppName))
			c.RootCancel() // broadcast to all child services via Context.Done()
		}()
		zap.L().Debug("shutdown signal listener started", zap.String("component", "core"))
	})
}

func (c *Core) PrepareWebService(router http.Handler) {
	c.WebService = web.NewService(c.RootCtx, c.Listen, router)
	c.AddService(c.WebService)
}

func (c *Core) PrepareThrottleBucketStore(cleanupCycle time.Duration, cleanupOlderThan time.Duration) error {
	c.ThrottleBucketStore = throttle.NewBucketStore[string](c.RootCtx, cleanupCycle, cleanupOlderThan)
	burst := c.Throttle.Burst
	if burst <= 0 {
		burst = 10
	}
	period := time.Second * 6
	if c.Throttle.Period != "" {
		d, err := time.ParseDuration(c.Throttle.Period)
		if err != nil {
			return fmt.Errorf("throttle period: %w", err)
		}
		period = d
	}
	c.ThrottleBucketStore.SetBucketGroup(GenerateBucketGroup, &throttle.BucketConf{
		Burst:     burst,
		Increment: 1,
		Period:    period,
	})
	c.AddService(c.ThrottleBucketStore)
	return nil
}

// GenerateBucketGroup throttles document generation per client IP
const GenerateBucketGroup = "generate"

// PrepareStorages loads config/.storages.json and resolves it against AppRoot
func (c *Core) PrepareStorages() error {
	var raw storages.Conf
	if _, err := c.readConfFile(StoragesFile, &raw); err != nil {
		return err
	}
	c.StorageConf = raw.Resolve(c.AppRoot)
	return nil
}

// PrepareKVDatabase loads config/.kv-databases.json. Without the file, an in-process store is used.
func (c *Core) PrepareKVDatabase() error {
	found, err := c.readConfFile(KVDBFile, &c.KVDBConf)
	if err != nil {
		return err
	}
	if !found || c.KVDBConf.Type == "" {
		c.KVDBConf.Type = "memory"
	}
	client, err := kvdb.New(&c.KVDBConf)
	if err != nil {
		return err
	}
	if err = client.Init(); err != nil {
		return fmt.Errorf("init %s kv client: %w", c.KVDBConf.Type, err)
	}
	c.BackendKVDBClient = client
	return nil
}

func (c *Core) loadSQLDBConfs() error {
	c.SQLDBConfs = make(map[string]*sqldb.Conf)
	if _, err := c.readConfFile(SQLDBFile, &c.SQLDBConfs); err != nil {
		return err
	}
	if _, ok := c.SQLDBConfs[RecordsDB]; !ok {
		c.SQLDBConfs[RecordsDB] = &sqldb.Conf{Type: sqlite.DBType, DB: filepath.Join("data", "records.db")}
	}
	for _, conf := range c.SQLDBConfs {
		if conf.Type == sqlite.DBType && conf.DSN == "" && conf.DB != sqlite.MemoryDB && !filepath.IsAbs(conf.DB) {
			conf.DB = filepath.Join(c.AppRoot, conf.DB)
		}
	}
	return nil
}

// PrepareSQLDatabases builds and inits a client per entry of config/.sql-databases.json.
// Implementations register themselves with the sqldb factory on import.
func (c *Core) PrepareSQLDatabases() error {
	if err := c.loadSQLDBConfs(); err != nil {
		return err
	}
	c.BackendSQLDBClients = make(map[string]sqldb.Client)
	for dbName, sqlDBConf := range c.SQLDBConfs {
		if sqlDBConf.Type == sqlite.DBType && sqlDBConf.DB != sqlite.MemoryDB {
			if err := os.MkdirAll(filepath.Dir(sqlDBConf.DB), 0o755); err != nil {
				return err
			}
		}
		dbClient, err := sqldb.New(sqlDBConf)
		if err != nil {
			return fmt.Errorf("%s: %w", dbName, err)
		}
		if err = dbClient.Init(c.RootCtx); err != nil {
			return fmt.Errorf("init %q sql client: %w", dbName, err)
		}
		c.BackendSQLDBClients[dbName] = dbClient
	}
	return nil
}

// PrepareRecords opens (and migrates) the record store
// Prerequisite: PrepareSQLDatabases
func (c *Core) PrepareRecords() error {
	client, ok := c.BackendSQLDBClients[RecordsDB]
	if !ok {
		return fmt.Errorf("sql database %q not ready", RecordsDB)
	}
	store, err := records.Open(c.RootCtx, client)
	if err != nil {
		return err
	}
	c.Records = store
	return nil
}

// PrepareSecurity loads config/.security.json: API token issuer and share link cipher
func (c *Core) PrepareSecurity() error {
	found, err := c.readConfFile(SecurityFile, &c.SecurityConf)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrSecurityNotConfigured, c.ConfPath(SecurityFile))
	}
	issuer := c.SecurityConf.Issuer
	if issuer == "" {
		issuer = c.AppName
	}
	if c.TokenIssuer, err = sec.NewTokenIssuer([]byte(c.SecurityConf.JWTSecret), issuer); err != nil {
		return fmt.Errorf("jwt_secret: %w", err)
	}
	key, err := sec.ParseKey(c.SecurityConf.ShareKey)
	if err != nil {
		return fmt.Errorf("share_key: %w", err)
	}
	if c.ShareCipher, err = sec.NewXChaCha20Poly1305CipherBase64(key); err != nil {
		return fmt.Errorf("share_key: %w", err)
	}
	return nil
}

// PrepareLetterhead loads config/.letterhead.json, or the built-in letterhead without it.
// It can be invoked again to Hot-Reload; the renderer picks up the new value.
func (c *Core) PrepareLetterhead() error {
	var lh document.Letterhead
	if _, err := c.readConfFile(LetterheadFile, &lh); err != nil {
		return err
	}
	lh = lh.WithDefaults()
	c.Letterhead.Store(&lh) // atomic store
	if c.Renderer != nil {
		c.Renderer.SetLetterhead(lh)
	}
	return nil
}

// GetLetterhead reads the current letterhead with a single atomic load
func (c *Core) GetLetterhead() document.Letterhead {
	lh := c.Letterhead.Load()
	if lh == nil {
		return document.DefaultLetterhead()
	}
	return *lh
}

// PrepareDocuments wires the generation pipeline and discovery on the configured roots.
// Prerequisite: PrepareStorages. Records is optional.
func (c *Core) PrepareDocuments() error {
	roots := c.StorageConf.Roots()
	if len(roots.WriteRoots()) == 0 {
		return artifacts.ErrNoRoots
	}
	c.Locator = artifacts.NewLocator(roots)
	c.Discovery = artifacts.NewDiscovery(roots)
	c.Renderer = layout.NewRenderer(c.GetLetterhead())
	resolver := assets.NewResolver(assets.DefaultChain(c.StorageConf.AssetDir, c.StorageConf.BundleDir)...)
	c.Generator = docgen.New(resolver, c.Renderer, c.Locator, c.Records).
		WithWriters(docgen.FPDFWriters(c.AppName))
	return nil
}

// PrepareShares
// Prerequisite: PrepareKVDatabase, PrepareSecurity, PrepareDocuments
func (c *Core) PrepareShares() error {
	if c.BackendKVDBClient == nil {
		return errors.New("backend KVDB client not ready")
	}
	if c.ShareCipher == nil {
		return errors.New("share cipher not ready")
	}
	if c.Discovery == nil {
		return errors.New("discovery not ready")
	}
	c.Shares = sharing.NewService(c.BackendKVDBClient, c.ShareCipher, c.Discovery)
	return nil
}

func (c *Core) PrepareHTMLTemplateStore() error {
	store, err := tpl.Builtin()
	if err != nil {
		return err
	}
	c.HTMLTemplateStore = store
	return nil
}

func (c *Core) ResourceCleanUp() {
	zap.L().Info("app resource cleaning up", zap.String("component", "core"))
	if c.BackendKVDBClient != nil {
		db.CloseClient("kv:"+c.KVDBConf.Type, c.BackendKVDBClient)
	}
	for name, sqlDBClient := range c.BackendSQLDBClients {
		db.CloseClient("sql:"+name, sqlDBClient)
	}
	zap.L().Info("app resource cleanup complete", zap.String("component", "core"))
}
