// Package cli implements the notejour terminal client on top of pkg/api.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adama-mariko/notejour/internal/config"
	"github.com/Adama-mariko/notejour/pkg/api"
	"github.com/Adama-mariko/notejour/pkg/session"
)

// App bundles the wired client and session for subcommands.
type App struct {
	Client  *api.Client
	Session *session.Store
}

type appKey struct{}

func appFrom(cmd *cobra.Command) *App {
	return cmd.Context().Value(appKey{}).(*App)
}

func RootCmd() *cobra.Command {
	var (
		apiURL      string
		sessionPath string
	)

	root := &cobra.Command{
		Use:           "notejour",
		Short:         "Task assignment client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cfg := config.Load()
			if apiURL == "" {
				apiURL = cfg.APIBaseURL
			}
			if sessionPath == "" {
				sessionPath = cfg.SessionPath
			}
			store := session.NewStore(sessionPath)
			app := &App{
				Client:  api.New(apiURL, store, api.WithTimeout(cfg.RequestTimeout)),
				Session: store,
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, app))
		},
	}

	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "Server base URL (default $NOTEJOUR_API_URL)")
	root.PersistentFlags().StringVar(&sessionPath, "session", "", "Session file path (default $NOTEJOUR_SESSION)")

	root.AddCommand(
		RegisterCmd(),
		LoginCmd(),
		LogoutCmd(),
		WhoamiCmd(),
		TasksCmd(),
		AdminCmd(),
		DashboardCmd(),
	)

	return root
}

// requireSession fails fast when no one is logged in, instead of letting the
// server answer 401 on every call.
func requireSession(app *App) (api.User, error) {
	user, ok := app.Session.CurrentUser()
	if !ok {
		return api.User{}, fmt.Errorf("aucune session active, connectez-vous avec 'notejour login'")
	}
	return user, nil
}
