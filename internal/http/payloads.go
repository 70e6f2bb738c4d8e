package http

import (
	"fmt"
	"time"

	"github.com/Adama-mariko/notejour/internal/model"
)

// Wire shapes. Field names and timestamp formatting are part of the public
// contract consumed by existing clients, French names included.

type userPayload struct {
	ID           int64   `json:"id"`
	Nom          string  `json:"nom"`
	Prenom       string  `json:"prenom"`
	Email        string  `json:"email"`
	Telephone    string  `json:"telephone"`
	PhotoProfile string  `json:"photo_profile"`
	Role         string  `json:"role"`
	CreatedAt    *string `json:"created_at"`
}

// sessionUserPayload is the trimmed user object returned by login.
type sessionUserPayload struct {
	ID        int64  `json:"id"`
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
	Role      string `json:"role"`
}

type taskOwnerPayload struct {
	ID     int64  `json:"id"`
	Nom    string `json:"nom"`
	Prenom string `json:"prenom"`
	Email  string `json:"email"`
}

type taskPayload struct {
	ID              int64             `json:"id"`
	Titre           string            `json:"titre"`
	Description     string            `json:"description"`
	Statut          string            `json:"statut"`
	NoteUtilisateur *string           `json:"note_utilisateur"`
	ValideParAdmin  bool              `json:"valide_par_admin"`
	DateValidation  *string           `json:"date_validation"`
	CreatedAt       *string           `json:"created_at"`
	UpdatedAt       *string           `json:"updated_at"`
	UserID          int64             `json:"user_id"`
	AssignedByID    *int64            `json:"assigned_by_id"`
	User            *taskOwnerPayload `json:"user"`
}

// isoTime matches datetime.isoformat(): UTC wall time without a zone suffix.
const isoTimeLayout = "2006-01-02T15:04:05.999999"

func isoTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	formatted := t.UTC().Format(isoTimeLayout)
	return &formatted
}

func isoTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return isoTime(*t)
}

func mapUser(user model.User) userPayload {
	photo := fmt.Sprintf("https://ui-avatars.com/api/?name=%s+%s&background=4F46E5&color=fff&size=200", user.Prenom, user.Nom)
	if user.PhotoProfile != nil && *user.PhotoProfile != "" {
		photo = *user.PhotoProfile
	}
	return userPayload{
		ID:           user.ID,
		Nom:          user.Nom,
		Prenom:       user.Prenom,
		Email:        user.Email,
		Telephone:    user.Telephone,
		PhotoProfile: photo,
		Role:         user.Role,
		CreatedAt:    isoTime(user.CreatedAt),
	}
}

func mapUsers(users []model.User) []userPayload {
	payloads := make([]userPayload, 0, len(users))
	for _, user := range users {
		payloads = append(payloads, mapUser(user))
	}
	return payloads
}

func mapSessionUser(user model.User) sessionUserPayload {
	return sessionUserPayload{
		ID:        user.ID,
		Nom:       user.Nom,
		Prenom:    user.Prenom,
		Email:     user.Email,
		Telephone: user.Telephone,
		Role:      user.Role,
	}
}

func mapTask(task model.Task) taskPayload {
	payload := taskPayload{
		ID:              task.ID,
		Titre:           task.Titre,
		Description:     task.Description,
		Statut:          task.Statut,
		NoteUtilisateur: task.NoteUtilisateur,
		ValideParAdmin:  task.ValideParAdmin,
		DateValidation:  isoTimePtr(task.DateValidation),
		CreatedAt:       isoTime(task.CreatedAt),
		UpdatedAt:       isoTime(task.UpdatedAt),
		UserID:          task.UserID,
		AssignedByID:    task.AssignedByID,
	}
	if task.User != nil {
		payload.User = &taskOwnerPayload{
			ID:     task.User.ID,
			Nom:    task.User.Nom,
			Prenom: task.User.Prenom,
			Email:  task.User.Email,
		}
	}
	return payload
}

func mapTasks(tasks []model.Task) []taskPayload {
	payloads := make([]taskPayload, 0, len(tasks))
	for _, task := range tasks {
		payloads = append(payloads, mapTask(task))
	}
	return payloads
}
