package model

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           int64
	Nom          string
	Prenom       string
	Email        string
	Telephone    string
	PasswordHash string
	PhotoProfile *string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Task struct {
	ID              int64
	Titre           string
	Description     string
	Statut          string
	NoteUtilisateur *string
	ValideParAdmin  bool
	DateValidation  *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	UserID          int64
	AssignedByID    *int64
	// Assignee snapshot, populated on reads that join users.
	User *User
}

// TaskUpdate carries the admin partial-update fields; nil means untouched.
type TaskUpdate struct {
	Titre       *string
	Description *string
	Statut      *string
}
