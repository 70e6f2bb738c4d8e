package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adama-mariko/notejour/pkg/api"
)

func RegisterCmd() *cobra.Command {
	var data api.RegisterData

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := appFrom(cmd)
			if err := app.Client.Register(cmd.Context(), data); err != nil {
				return err
			}
			cmd.Println(successStyle.Render("Utilisateur créé avec succès"))
			cmd.Println("Connectez-vous avec 'notejour login'")
			return nil
		},
	}

	cmd.Flags().StringVar(&data.Nom, "nom", "", "Last name")
	cmd.Flags().StringVar(&data.Prenom, "prenom", "", "First name")
	cmd.Flags().StringVar(&data.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&data.Telephone, "telephone", "", "Phone number, 10 digits")
	cmd.Flags().StringVar(&data.Password, "password", "", "Password, 6 characters minimum")
	_ = cmd.MarkFlagRequired("nom")
	_ = cmd.MarkFlagRequired("prenom")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("telephone")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func LoginCmd() *cobra.Command {
	var (
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := appFrom(cmd)
			out, err := app.Client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			cmd.Println(successStyle.Render(fmt.Sprintf("Connecté en tant que %s %s (%s)", out.User.Prenom, out.User.Nom, out.User.Role)))
			cmd.Println(faintStyle.Render(fmt.Sprintf("Session valable %d jours", out.ExpiresInDays)))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the token and clear the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := appFrom(cmd)
			if err := app.Client.Logout(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("Déconnexion réussie")
			return nil
		},
	}
}

func WhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the profile behind the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := appFrom(cmd)
			if _, err := requireSession(app); err != nil {
				return err
			}
			user, err := app.Client.Me(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Println(renderUserLine(*user))
			cmd.Println(faintStyle.Render("rôle: " + user.Role))
			return nil
		},
	}
}
