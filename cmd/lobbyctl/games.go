package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
)

type gameView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	OwnerID  string `json:"owner_id"`
	Capacity int    `json:"capacity"`
}

func toGameView(g repository.Game) gameView {
	return gameView{ID: g.ID, Name: g.Name, OwnerID: g.OwnerID, Capacity: g.Capacity}
}

func parseGameID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: game id %q is not an integer", repository.ErrInvalidInput, s)
	}
	return id, nil
}

func gameCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "game", Short: "Operaciones sobre el catálogo de juegos"}

	var in repository.CreateGameInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Agregar un juego al catálogo",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.store.CreateGame(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.print(toGameView(*g))
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "Nombre único del juego")
	create.Flags().StringVar(&in.OwnerID, "owner", "", "ID del usuario dueño")
	create.Flags().IntVar(&in.Capacity, "capacity", 0, "Máximo de membresías entre todas las parties")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("owner")
	_ = create.MarkFlagRequired("capacity")

	var byName string
	get := &cobra.Command{
		Use:   "get [id]",
		Short: "Buscar un juego por ID o por --name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				g   *repository.Game
				err error
			)
			switch {
			case byName != "":
				g, err = a.store.GetGameByName(cmd.Context(), byName)
			case len(args) == 1:
				var id int64
				if id, err = parseGameID(args[0]); err != nil {
					return err
				}
				g, err = a.store.GetGameByID(cmd.Context(), id)
			default:
				return cmd.Usage()
			}
			if err != nil {
				return err
			}
			return a.print(toGameView(*g))
		},
	}
	get.Flags().StringVar(&byName, "name", "", "Nombre exacto del juego")

	var owner string
	list := &cobra.Command{
		Use:   "list",
		Short: "Listar juegos (todos o los de --owner)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				gs  []repository.Game
				err error
			)
			if owner != "" {
				gs, err = a.store.GetGamesByOwner(cmd.Context(), owner)
			} else {
				gs, err = a.store.GetAllGames(cmd.Context())
			}
			if err != nil {
				return err
			}
			out := make([]gameView, 0, len(gs))
			for _, g := range gs {
				out = append(out, toGameView(g))
			}
			return a.print(out)
		},
	}
	list.Flags().StringVar(&owner, "owner", "", "ID del dueño")

	cmd.AddCommand(
		create,
		get,
		list,
		&cobra.Command{
			Use:   "owner <game-id> <user-id>",
			Short: "Transferir la propiedad del juego",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseGameID(args[0])
				if err != nil {
					return err
				}
				if err := a.store.SetGameOwner(cmd.Context(), id, args[1]); err != nil {
					return err
				}
				g, err := a.store.GetGameByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				return a.print(toGameView(*g))
			},
		},
		&cobra.Command{
			Use:   "delete <game-id>",
			Short: "Eliminar el juego con sus parties",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseGameID(args[0])
				if err != nil {
					return err
				}
				if err := a.store.DeleteGame(cmd.Context(), id); err != nil {
					return err
				}
				return a.print(map[string]any{"id": id, "deleted": true})
			},
		},
	)
	return cmd
}
