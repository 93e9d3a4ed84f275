package main

import (
	"time"

	"github.com/spf13/cobra"
)

func tokenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "token", Short: "Lista de revocación de tokens"}

	var ttl time.Duration
	revoke := &cobra.Command{
		Use:   "revoke <token-id>",
		Short: "Revocar un token (usar el tiempo de vida restante como --ttl)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.RevokeToken(cmd.Context(), args[0], ttl); err != nil {
				return err
			}
			return a.print(map[string]any{"token_id": args[0], "revoked": true, "ttl": ttl.String()})
		},
	}
	revoke.Flags().DurationVar(&ttl, "ttl", time.Hour, "Vigencia de la revocación")

	check := &cobra.Command{
		Use:   "check <token-id>",
		Short: "Verificar si un token está revocado",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			revoked, err := a.store.IsTokenRevoked(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(map[string]any{"token_id": args[0], "revoked": revoked})
		},
	}

	cmd.AddCommand(revoke, check)
	return cmd
}
