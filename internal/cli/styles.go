package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Adama-mariko/notejour/pkg/api"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	badgeStyles = map[string]lipgloss.Style{
		api.StatusTodo:       lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("240")).Foreground(lipgloss.Color("255")),
		api.StatusInProgress: lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("33")).Foreground(lipgloss.Color("255")),
		api.StatusDone:       lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("208")).Foreground(lipgloss.Color("232")),
		api.StatusValidated:  lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("34")).Foreground(lipgloss.Color("255")),
	}
)

func statusBadge(statut string) string {
	style, ok := badgeStyles[statut]
	if !ok {
		return statut
	}
	return style.Render(statut)
}

func renderTaskLine(task api.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s %s", task.ID, statusBadge(task.Statut), task.Titre)
	if task.ValideParAdmin && task.DateValidation != nil {
		b.WriteString(faintStyle.Render(fmt.Sprintf("  validée le %s", *task.DateValidation)))
	}
	return b.String()
}

func renderTaskDetail(task api.Task) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Tâche #%d : %s", task.ID, task.Titre)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", headerStyle.Render("Statut:"), statusBadge(task.Statut))
	if task.Description != "" {
		fmt.Fprintf(&b, "%s %s\n", headerStyle.Render("Description:"), task.Description)
	}
	if task.User != nil {
		fmt.Fprintf(&b, "%s %s %s <%s>\n", headerStyle.Render("Assignée à:"), task.User.Prenom, task.User.Nom, task.User.Email)
	}
	if task.NoteUtilisateur != nil && *task.NoteUtilisateur != "" {
		fmt.Fprintf(&b, "%s %s\n", headerStyle.Render("Note:"), *task.NoteUtilisateur)
	}
	if task.ValideParAdmin {
		line := "oui"
		if task.DateValidation != nil {
			line = fmt.Sprintf("oui, le %s", *task.DateValidation)
		}
		fmt.Fprintf(&b, "%s %s\n", headerStyle.Render("Validée:"), successStyle.Render(line))
	}
	fmt.Fprintf(&b, "%s %s\n", headerStyle.Render("Créée le:"), task.CreatedAt)
	return b.String()
}

func renderUserLine(user api.User) string {
	return fmt.Sprintf("#%d %s %s %s", user.ID, user.Prenom, user.Nom, faintStyle.Render("<"+user.Email+">"))
}
