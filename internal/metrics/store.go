package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
)

// Store-related Prometheus metrics. Standalone package so both the lobby
// façade and the CLI can register them without import cycles.

var (
	StoreOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lobby_store_operations_total",
		Help: "Operaciones del store por driver, operación y resultado",
	}, []string{"driver", "op", "result"})

	StoreOperationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lobby_store_operation_duration_seconds",
		Help:    "Latencia de las operaciones del store en segundos",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	}, []string{"driver", "op"})

	RevokedTokens = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lobby_revoked_tokens_total",
		Help: "Tokens agregados a la lista de revocación",
	})
)

// RegisterStore registers the store metrics on the given registry (or default if nil).
func RegisterStore(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{StoreOperations, StoreOperationDuration, RevokedTokens} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

// ObserveStoreOp records one store operation started at start.
func ObserveStoreOp(driver, op string, start time.Time, err error) {
	StoreOperations.WithLabelValues(driver, op, repository.Kind(err)).Inc()
	StoreOperationDuration.WithLabelValues(driver, op).Observe(time.Since(start).Seconds())
}
