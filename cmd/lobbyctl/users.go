package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
)

// userView omite la credencial.
type userView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsAdmin    bool   `json:"is_admin"`
	IsVerified bool   `json:"is_verified"`
}

func toUserView(u *repository.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin, IsVerified: u.IsVerified}
}

func userCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "user", Short: "Operaciones sobre usuarios"}

	var in repository.CreateUserInput
	var password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Crear un usuario (--id default: UUID nuevo)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.ID == "" {
				in.ID = uuid.NewString()
			}
			in.Password = []byte(password)
			u, err := a.store.CreateUser(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.print(toUserView(u))
		},
	}
	create.Flags().StringVar(&in.ID, "id", "", "ID del usuario")
	create.Flags().StringVar(&in.Name, "name", "", "Nombre (3+ caracteres [A-Za-z0-9_])")
	create.Flags().StringVar(&in.Email, "email", "", "Email")
	create.Flags().StringVar(&password, "password", "", "Credencial opaca (se guarda tal cual)")
	create.Flags().BoolVar(&in.IsAdmin, "admin", false, "Crear como administrador")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	var login string
	get := &cobra.Command{
		Use:   "get [id]",
		Short: "Buscar un usuario por ID o por --login (nombre o email)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				u   *repository.User
				err error
			)
			switch {
			case login != "":
				u, err = a.store.GetUserByLogin(cmd.Context(), login)
			case len(args) == 1:
				u, err = a.store.GetUserByID(cmd.Context(), args[0])
			default:
				return cmd.Usage()
			}
			if err != nil {
				return err
			}
			return a.print(toUserView(u))
		},
	}
	get.Flags().StringVar(&login, "login", "", "Nombre o email (sin distinguir mayúsculas)")

	cmd.AddCommand(
		create,
		get,
		flagCmd(a, "verify", "Marcar al usuario como verificado", a.setVerified),
		flagCmd(a, "admin", "Dar permisos de administrador", a.setAdmin),
		&cobra.Command{
			Use:   "rename <old-id> <new-id>",
			Short: "Cambiar el ID del usuario (se propaga a juegos y parties)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.store.ChangeUserID(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				return a.print(map[string]string{"old_id": args[0], "id": args[1]})
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Eliminar un usuario sin parties ni juegos",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.store.DeleteUser(cmd.Context(), args[0]); err != nil {
					return err
				}
				return a.print(map[string]any{"id": args[0], "deleted": true})
			},
		},
	)
	return cmd
}

// flagCmd arma "verify"/"admin": <id> activa el flag, --off lo desactiva.
func flagCmd(a *app, use, short string, set func(cmd *cobra.Command, id string, on bool) error) *cobra.Command {
	var off bool
	c := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := set(cmd, args[0], !off); err != nil {
				return err
			}
			u, err := a.store.GetUserByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(toUserView(u))
		},
	}
	c.Flags().BoolVar(&off, "off", false, "Desactivar en lugar de activar")
	return c
}

func (a *app) setVerified(cmd *cobra.Command, id string, on bool) error {
	return a.store.SetUserVerified(cmd.Context(), id, on)
}

func (a *app) setAdmin(cmd *cobra.Command, id string, on bool) error {
	return a.store.SetUserAdmin(cmd.Context(), id, on)
}
