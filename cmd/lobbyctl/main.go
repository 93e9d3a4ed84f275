// lobbyctl es la CLI administrativa del lobby: migraciones, usuarios,
// juegos, parties y revocación de tokens. Imprime JSON por stdout.
package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/gamelobby/internal/config"
	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
	"github.com/dropDatabas3/gamelobby/internal/lobby"
	"github.com/dropDatabas3/gamelobby/internal/observability/logger"
)

type app struct {
	configPath string
	envFile    string
	migrate    bool

	out   io.Writer
	cfg   *config.Config
	store *lobby.Store
}

// open carga .env y config, inicializa el logger y abre el store.
func (a *app) open(ctx context.Context) error {
	if a.envFile != "" {
		_ = godotenv.Load(a.envFile)
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.migrate {
		cfg.Flags.Migrate = true
	}
	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, ServiceName: "lobbyctl"})

	s, err := lobby.Open(ctx, cfg, nil)
	if err != nil {
		return err
	}
	a.cfg, a.store = cfg, s
	return nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logger.L().Warn("close store", logger.Err(err))
		}
		a.store = nil
	}
	_ = logger.Sync()
}

func (a *app) print(v any) error {
	return writeJSON(a.out, v)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	a := &app{out: os.Stdout}
	root := newRootCmd(a)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		a.close()
		_ = writeJSON(os.Stderr, map[string]string{"error": err.Error(), "kind": repository.Kind(err)})
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "lobbyctl",
		Short:         "CLI admin del lobby (usuarios, juegos, parties, tokens)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv("LOBBY_CONFIG"), "Path al YAML de config (env LOBBY_CONFIG; vacío = defaults + env)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "Archivo .env a cargar antes de la config")
	root.PersistentFlags().BoolVar(&a.migrate, "migrate", false, "Aplicar migraciones al abrir el store")

	root.AddCommand(
		migrateCmd(a),
		userCmd(a),
		gameCmd(a),
		partyCmd(a),
		tokenCmd(a),
	)
	return root
}

func migrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplicar las migraciones embebidas del driver configurado",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.store.Migrate(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(map[string]any{
				"driver":      a.store.Driver(),
				"applied":     nonNil(res.Applied),
				"skipped":     nonNil(res.Skipped),
				"duration_ms": res.Duration.Milliseconds(),
			})
		},
	}
}

func nonNil(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}
