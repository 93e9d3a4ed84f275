package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
	"github.com/dropDatabas3/gamelobby/internal/lobby"
)

type partyView struct {
	ID      string   `json:"id"`
	GameID  int64    `json:"game_id"`
	Members []string `json:"members"`
}

func toPartyView(p repository.Party) partyView {
	members := p.Members
	if members == nil {
		members = []string{}
	}
	return partyView{ID: p.ID, GameID: p.GameID, Members: members}
}

func partyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "party", Short: "Operaciones sobre parties y membresías"}

	var (
		id      string
		game    string
		members []string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Crear una party con sus miembros (todo o nada)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == "" {
				id = uuid.NewString()
			}
			p, err := a.store.CreateParty(cmd.Context(), id, game, members)
			if err != nil {
				return err
			}
			return a.print(toPartyView(*p))
		},
	}
	create.Flags().StringVar(&id, "id", "", "ID de la party (default: UUID nuevo)")
	create.Flags().StringVar(&game, "game", "", "Nombre del juego")
	create.Flags().StringSliceVar(&members, "member", nil, "IDs de usuario (repetible o separado por comas)")
	_ = create.MarkFlagRequired("game")

	cmd.AddCommand(
		create,
		&cobra.Command{
			Use:   "get <party-id>",
			Short: "Ver una party con sus miembros",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := a.store.GetParty(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.print(toPartyView(*p))
			},
		},
		&cobra.Command{
			Use:   "list <game-id>",
			Short: "Listar las parties activas de un juego",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				gameID, err := parseGameID(args[0])
				if err != nil {
					return err
				}
				ps, err := a.store.GetPartiesByGame(cmd.Context(), gameID)
				if err != nil {
					return err
				}
				out := make([]partyView, 0, len(ps))
				for _, p := range ps {
					out = append(out, toPartyView(p))
				}
				return a.print(out)
			},
		},
		memberCmd(a, "add", "Sumar un usuario a la party", (*lobby.Store).AddPartyMember),
		memberCmd(a, "remove", "Quitar un usuario de la party", (*lobby.Store).RemovePartyMember),
		&cobra.Command{
			Use:   "delete <party-id>",
			Short: "Eliminar la party (el ID queda retirado)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.store.DeleteParty(cmd.Context(), args[0]); err != nil {
					return err
				}
				return a.print(map[string]any{"id": args[0], "deleted": true})
			},
		},
	)
	return cmd
}

// memberCmd arma "add"/"remove"; op recibe el store ya abierto.
func memberCmd(a *app, use, short string, op func(*lobby.Store, context.Context, string, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <party-id> <user-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := op(a.store, cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			p, err := a.store.GetParty(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(toPartyView(*p))
		},
	}
}
