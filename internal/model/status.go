package model

// Task statuses. The first three are settable by the assignee in any order
// while the task is not validated; "validé" is terminal and only ever produced
// by an admin validation.
const (
	StatusTodo       = "à faire"
	StatusInProgress = "en cours"
	StatusDone       = "terminé"
	StatusValidated  = "validé"
)

func ValidStatus(statut string) bool {
	switch statut {
	case StatusTodo, StatusInProgress, StatusDone, StatusValidated:
		return true
	}
	return false
}

// UserSettableStatus reports whether the assignee may request this status.
func UserSettableStatus(statut string) bool {
	switch statut {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Validated reports whether the admin has signed the task off. The flag and
// the terminal status travel together; either one counts.
func Validated(task Task) bool {
	return task.ValideParAdmin || task.Statut == StatusValidated
}

// CanSetStatus reports whether the assignee may move the task to statut.
// Validated tasks are frozen from the assignee's side.
func CanSetStatus(task Task, statut string) bool {
	if Validated(task) {
		return false
	}
	return UserSettableStatus(statut)
}

// CanValidate reports whether an admin validation is meaningful: work has been
// reported finished and the task is not already validated.
func CanValidate(task Task) bool {
	return task.Statut == StatusDone && !task.ValideParAdmin
}
