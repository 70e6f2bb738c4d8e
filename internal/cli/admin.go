package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adama-mariko/notejour/pkg/api"
)

func AdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage users and tasks (admin role required)",
	}
	cmd.AddCommand(
		adminUsersCmd(),
		adminCreateUserCmd(),
		adminTasksCmd(),
		adminAssignCmd(),
		adminUpdateCmd(),
		adminValidateCmd(),
		adminDeleteCmd(),
	)
	return cmd
}

func adminUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List the standard accounts tasks can be assigned to",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := appFrom(cmd)
			if _, err := requireSession(app); err != nil {
				return err
			}
			users, err := app.Client.GetAllUsers(cmd.Context())
			if err != nil {
				return err
			}
			if len(users) == 0 {
				cmd.Println(faintStyle.Render("Aucun utilisateur"))
				return nil
			}
			for _, user := range users {
				cmd.Println(renderUserLine(user))
			}
			return nil
		},
	}
}

func adminCreateUserCmd() *cobra.Command {
	var data api.CreateUserData

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Provision an account with an explicit role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := appFrom(cmd)
			if _, err := requireSession(app); err != nil {
				return err
			}
			user, err := app.Client.CreateUser(cmd.Context(), data)
			if err != nil {
				return err
			}
			cmd.Println(successStyle.Render("Utilisateur créé avec succès"))
			cmd.Println(renderUserLine(*user))
			return nil
		},
	}

	cmd.Flags().StringVar(&data.Nom, "nom", "", "Last name")
	cmd.Flags().StringVar(&data.Prenom, "prenom", "", "First name")
	cmd.Flags().StringVar(&data.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&data.Telephone, "telephone", "", "Phone number, 10 digits")
	cmd.Flags().StringVar(&data.Password, "password", "", "Password, 6 characters minimum")
	cmd.Flags().StringVar(&data.Role, "role", "user", "Account role: user or admin")
	_ = cmd.MarkFlagRequired("nom")
	_ = cmd.MarkFlagRequired("prenom")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("telephone")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func adminTasksCmd() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List every task, or one user's tasks with --user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := appFrom(cmd)
			if _, err := requireSession(app); err != nil {
				return err
			}
			var (
				tasks []api.Task
				err   error
			)
			if userID > 0 {
				tasks, err = app.Client.GetUserTasks(cmd.Context(), userID)
			} else {
				tasks, err = app.Client.GetAllTasks(cmd.Context())
			}
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				cmd.Println(faintStyle.Render("Aucune tâche"))
				return nil
			}
			for _, task := range tasks {
				line := renderTaskLine(task)
				if task.User != nil {
					line += faintStyle.Render(fmt.Sprintf("  (%s %s)", task.User.Prenom, task.User.Nom))
				}
				cmd.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "Only this user's tasks")
	return cmd
}

func adminAssignCmd() *cobra.Command {
	var data api.CreateTaskData

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign a new task to a standard user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := appFrom(cmd)
			if _, err := requireSession(app); err != nil {
				return err
			}
			task, err := app.Client.CreateTask(cmd.Context(), data)
			if err != nil {
				return err
			}
			cmd.Println(successStyle.Render("Tâche assignée"))
			cmd.Println(renderTaskLine(*task))
			return nil
		},
	}

	cmd.Flags().Int64Var(&data.UserID, "user", 0, "Assignee user id")
	cmd.Flags().StringVar(&data.Titre, "titre", "", "Task title")
	cmd.Flags().StringVar(&data.Description, "description", "", "Task description")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("titre")

	return cmd
}

func adminUpdateCmd() *cobra.Command {
	var (
		titre       string
		description string
		statut      string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a task; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if _, err := requireSession(app); err != nil {
				return err
			}
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			var update api.TaskUpdate
			if cmd.Flags().Changed("titre") {
				update.Titre = &titre
			}
			if cmd.Flags().Changed("description") {
				update.Description = &description
			}
			if cmd.Flags().Changed("statut") {
				update.Statut = &statut
			}
			task, err := app.Client.UpdateTask(cmd.Context(), taskID, update)
			if err != nil {
				return err
			}
			cmd.Println(renderTaskLine(*task))
			return nil
		},
	}

	cmd.Flags().StringVar(&titre, "titre", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&statut, "statut", "", "New status")

	return cmd
}

func adminValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <id>",
		Short: "Sign off a finished task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if _, err := requireSession(app); err != nil {
				return err
			}
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			task, err := app.Client.ValidateTask(cmd.Context(), taskID)
			if err != nil {
				return err
			}
			cmd.Println(successStyle.Render("Tâche validée avec succès"))
			cmd.Println(renderTaskLine(*task))
			return nil
		},
	}
}

func adminDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if _, err := requireSession(app); err != nil {
				return err
			}
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			if err := app.Client.DeleteTask(cmd.Context(), taskID); err != nil {
				return err
			}
			cmd.Println("Tâche supprimée avec succès")
			return nil
		},
	}
}
