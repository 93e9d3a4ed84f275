package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
)

func TestRegisterStoreTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterStore(reg))
	require.NoError(t, RegisterStore(reg))
}

func TestObserveStoreOp(t *testing.T) {
	start := time.Now()
	ObserveStoreOp("sqlite", "create_party", start, nil)
	ObserveStoreOp("sqlite", "create_party", start, fmt.Errorf("sqlite: create party: %w", repository.ErrCapacityExceeded))
	ObserveStoreOp("sqlite", "create_party", start, errors.New("disk"))

	require.Equal(t, 1.0, testutil.ToFloat64(StoreOperations.WithLabelValues("sqlite", "create_party", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(StoreOperations.WithLabelValues("sqlite", "create_party", "capacity_exceeded")))
	require.Equal(t, 1.0, testutil.ToFloat64(StoreOperations.WithLabelValues("sqlite", "create_party", "error")))
	require.Equal(t, 1, testutil.CollectAndCount(StoreOperationDuration))
}
