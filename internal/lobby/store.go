// Package lobby es la fachada del lobby: valida formatos, delega en el
// adapter de storage activo y deja métricas y logs de cada operación.
package lobby

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dropDatabas3/gamelobby/internal/cache"
	"github.com/dropDatabas3/gamelobby/internal/config"
	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
	"github.com/dropDatabas3/gamelobby/internal/metrics"
	"github.com/dropDatabas3/gamelobby/internal/observability/logger"
	"github.com/dropDatabas3/gamelobby/internal/revocation"
	"github.com/dropDatabas3/gamelobby/internal/store"

	// Adapters disponibles (se registran en init).
	_ "github.com/dropDatabas3/gamelobby/internal/store/adapters/mysql"
	_ "github.com/dropDatabas3/gamelobby/internal/store/adapters/noop"
	_ "github.com/dropDatabas3/gamelobby/internal/store/adapters/pg"
	_ "github.com/dropDatabas3/gamelobby/internal/store/adapters/sqlite"
)

// Store expone el conjunto lógico de operaciones del lobby.
type Store struct {
	conn   store.AdapterConnection
	driver string
	log    *zap.Logger
	tokens *revocation.List
	closer []func() error
}

// Option configura un Store.
type Option func(*Store)

// WithLogger reemplaza el logger (default: logger.Named("lobby")).
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithRevocations asocia una lista de revocación de tokens.
func WithRevocations(l *revocation.List) Option {
	return func(s *Store) { s.tokens = l }
}

// New envuelve una conexión ya abierta. Close cierra la conexión.
func New(conn store.AdapterConnection, opts ...Option) *Store {
	s := &Store{
		conn:   conn,
		driver: conn.Name(),
		log:    logger.Named("lobby"),
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With(logger.Driver(s.driver))
	s.closer = append(s.closer, conn.Close)
	return s
}

// Open abre el adapter configurado, aplica migraciones si Flags.Migrate
// está activo, registra métricas en reg (default si nil) y arma la lista
// de revocación sobre el cache configurado.
func Open(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (*Store, error) {
	if err := metrics.RegisterStore(reg); err != nil {
		return nil, fmt.Errorf("lobby: register metrics: %w", err)
	}

	conn, err := store.OpenAdapter(ctx, cfg.AdapterConfig())
	if err != nil {
		return nil, fmt.Errorf("lobby: open %s: %w", cfg.Storage.Driver, err)
	}
	log := logger.Named("lobby")

	if cfg.Flags.Migrate {
		res, err := store.Migrate(ctx, conn)
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("lobby: migrate: %w", err)
		}
		log.Info("migrations applied",
			logger.Driver(conn.Name()),
			zap.Ints("applied", res.Applied),
			logger.Count(len(res.Skipped)),
			logger.Duration(res.Duration))
	}

	cc, err := cache.New(ctx, cache.Config{
		Kind:       cfg.Cache.Kind,
		Addr:       cfg.Cache.Redis.Addr,
		Password:   cfg.Cache.Redis.Password,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: cfg.MemoryTTL(),
	})
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("lobby: cache: %w", err)
	}

	s := New(conn, WithLogger(log), WithRevocations(revocation.New(cc)))
	s.closer = append(s.closer, cc.Close)
	return s, nil
}

// Migrate aplica las migraciones pendientes del adapter activo.
func (s *Store) Migrate(ctx context.Context) (res *store.MigrationResult, err error) {
	defer func(start time.Time) {
		var fields []zap.Field
		if res != nil {
			fields = append(fields, zap.Ints("applied", res.Applied), logger.Count(len(res.Skipped)))
		}
		s.done(ctx, "migrate", true, start, err, fields...)
	}(time.Now())
	return store.Migrate(ctx, s.conn)
}

// Driver retorna el nombre del adapter activo.
func (s *Store) Driver() string { return s.driver }

// Ping verifica la conexión con el storage.
func (s *Store) Ping(ctx context.Context) error { return s.conn.Ping(ctx) }

// Close libera la conexión y el cache.
func (s *Store) Close() error {
	var errs []error
	for _, c := range s.closer {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// done registra métricas y log de una operación.
// Lecturas: debug. Escrituras: info si salió bien, warn si el store la
// rechazó con un error de la taxonomía, error en cualquier otro caso.
func (s *Store) done(ctx context.Context, op string, write bool, start time.Time, err error, fields ...zap.Field) {
	metrics.ObserveStoreOp(s.driver, op, start, err)

	log := logger.FromOr(ctx, s.log)
	fields = append(fields, logger.Op(op), logger.Duration(time.Since(start)))

	switch {
	case err == nil && write:
		log.Info("lobby op", fields...)
	case err == nil:
		log.Debug("lobby op", fields...)
	case repository.IsTaxonomy(err):
		if write {
			log.Warn("lobby op rejected", append(fields, logger.ErrKind(err), logger.Err(err))...)
		} else {
			log.Debug("lobby op rejected", append(fields, logger.ErrKind(err), logger.Err(err))...)
		}
	default:
		log.Error("lobby op failed", append(fields, logger.ErrKind(err), logger.Err(err))...)
	}
}
