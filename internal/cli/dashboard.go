package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adama-mariko/notejour/pkg/api"
)

// DashboardCmd shows the role-appropriate overview: admins get the validation
// queue and the workload per user, standard users get their own tasks grouped
// by status.
func DashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Overview for your role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := appFrom(cmd)
			user, err := requireSession(app)
			if err != nil {
				return err
			}
			if user.IsAdmin() {
				return adminDashboard(cmd, app)
			}
			return userDashboard(cmd, app, user)
		},
	}
}

func adminDashboard(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	tasks, err := app.Client.GetAllTasks(ctx)
	if err != nil {
		return err
	}
	users, err := app.Client.GetAllUsers(ctx)
	if err != nil {
		return err
	}

	cmd.Println(titleStyle.Render("Tableau de bord administrateur"))
	cmd.Println()

	pending := api.PendingValidation(tasks)
	cmd.Println(headerStyle.Render(fmt.Sprintf("À valider (%d)", len(pending))))
	if len(pending) == 0 {
		cmd.Println(faintStyle.Render("  rien à valider"))
	}
	for _, task := range pending {
		line := "  " + renderTaskLine(task)
		if task.User != nil {
			line += faintStyle.Render(fmt.Sprintf("  (%s %s)", task.User.Prenom, task.User.Nom))
		}
		cmd.Println(line)
	}
	cmd.Println()

	validated := api.ValidatedTasks(tasks)
	cmd.Println(headerStyle.Render(fmt.Sprintf("Validées (%d)", len(validated))))
	for _, task := range validated {
		cmd.Println("  " + renderTaskLine(task))
	}
	cmd.Println()

	cmd.Println(headerStyle.Render(fmt.Sprintf("Charge par utilisateur (%d comptes)", len(users))))
	counts := tasksPerUser(tasks)
	for _, u := range users {
		open, validated := counts[u.ID].open, counts[u.ID].validated
		cmd.Printf("  %s %s\n", renderUserLine(u),
			faintStyle.Render(fmt.Sprintf("%d en cours, %d validées", open, validated)))
	}
	return nil
}

func userDashboard(cmd *cobra.Command, app *App, user api.User) error {
	tasks, err := app.Client.GetMyTasks(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Println(titleStyle.Render(fmt.Sprintf("Mes tâches (%s %s)", user.Prenom, user.Nom)))
	cmd.Println()

	order := append(api.UserSelectableStatuses(), api.StatusValidated)
	for _, statut := range order {
		group := tasksWithStatus(tasks, statut)
		cmd.Println(headerStyle.Render(fmt.Sprintf("%s (%d)", statut, len(group))))
		for _, task := range group {
			cmd.Println("  " + renderTaskLine(task))
			if task.NoteUtilisateur != nil && *task.NoteUtilisateur != "" {
				cmd.Println(faintStyle.Render("    note: " + *task.NoteUtilisateur))
			}
		}
		cmd.Println()
	}
	cmd.Println(faintStyle.Render("Changer le statut: notejour tasks status <id> <statut>"))
	return nil
}

type userTaskCount struct {
	open      int
	validated int
}

func tasksPerUser(tasks []api.Task) map[int64]userTaskCount {
	counts := make(map[int64]userTaskCount)
	for _, task := range tasks {
		c := counts[task.UserID]
		if task.Validated() {
			c.validated++
		} else {
			c.open++
		}
		counts[task.UserID] = c
	}
	return counts
}

func tasksWithStatus(tasks []api.Task, statut string) []api.Task {
	var group []api.Task
	for _, task := range tasks {
		if task.Statut == statut {
			group = append(group, task)
		}
	}
	return group
}
