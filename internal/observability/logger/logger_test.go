package logger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	require.Equal(t, zapcore.WarnLevel, ParseLevel(" warning "))
	require.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	require.Equal(t, zapcore.InfoLevel, ParseLevel(""))
	require.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestFromFallsBackToSingleton(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := Set(zap.New(core))
	defer Set(prev)

	From(context.Background()).Info("singleton")
	require.Equal(t, 1, logs.Len())
	require.Equal(t, "singleton", logs.All()[0].Message)
}

func TestToContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(core).With(Component("lobby"))

	ctx := ToContext(context.Background(), l)
	From(ctx).Warn("rejected",
		Op("create_party"),
		PartyID("p1"),
		GameID(7),
		ErrKind(fmt.Errorf("x: %w", repository.ErrCapacityExceeded)),
		Err(errors.New("boom")),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "lobby", fields["component"])
	require.Equal(t, "create_party", fields["op"])
	require.Equal(t, "p1", fields["party_id"])
	require.Equal(t, int64(7), fields["game_id"])
	require.Equal(t, "capacity_exceeded", fields["error_kind"])
	require.Equal(t, "boom", fields["error"])
}

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"":                       "",
		"ab":                     "***",
		"alice":                  "a…e",
		" Alice@Example.COM ":    "a…@e….com",
		"b@x.io":                 "b@x.io",
		"carol@mail.example.org": "c…@m….example.org",
	}
	for in, want := range cases {
		require.Equal(t, want, MaskEmail(in), in)
	}
	require.Equal(t, "alice", Login("alice").String)
	require.Equal(t, "a…@e….com", Login("alice@example.com").String)
}
