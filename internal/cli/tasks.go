package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func TasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Work on your assigned tasks",
	}
	cmd.AddCommand(
		tasksListCmd(),
		tasksShowCmd(),
		tasksStatusCmd(),
		tasksNoteCmd(),
	)
	return cmd
}

func tasksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your tasks, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := appFrom(cmd)
			if _, err := requireSession(app); err != nil {
				return err
			}
			tasks, err := app.Client.GetMyTasks(cmd.Context())
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				cmd.Println(faintStyle.Render("Aucune tâche assignée"))
				return nil
			}
			for _, task := range tasks {
				cmd.Println(renderTaskLine(task))
			}
			return nil
		},
	}
}

func tasksShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one of your tasks",
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
			task, err := app.Client.GetMyTask(cmd.Context(), taskID)
			if err != nil {
				return err
			}
			cmd.Print(renderTaskDetail(*task))
			return nil
		},
	}
}

func tasksStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <statut>",
		Short: "Move a task to 'à faire', 'en cours' or 'terminé'",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if _, err := requireSession(app); err != nil {
				return err
			}
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			task, err := app.Client.UpdateTaskStatus(cmd.Context(), taskID, args[1])
			if err != nil {
				return err
			}
			cmd.Println(renderTaskLine(*task))
			return nil
		},
	}
}

func tasksNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note <id> <texte>...",
		Short: "Attach or replace the note on a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			if _, err := requireSession(app); err != nil {
				return err
			}
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			note := strings.Join(args[1:], " ")
			task, err := app.Client.SubmitTaskNote(cmd.Context(), taskID, note)
			if err != nil {
				return err
			}
			cmd.Println(successStyle.Render("Note enregistrée avec succès"))
			cmd.Println(renderTaskLine(*task))
			return nil
		},
	}
}

func parseTaskID(raw string) (int64, error) {
	taskID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || taskID <= 0 {
		return 0, fmt.Errorf("identifiant de tâche invalide: %q", raw)
	}
	return taskID, nil
}
