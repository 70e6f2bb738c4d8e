package api

// Task statuses as served by the API.
const (
	StatusTodo       = "à faire"
	StatusInProgress = "en cours"
	StatusDone       = "terminé"
	StatusValidated  = "validé"
)

// UserSelectableStatuses lists the values an assignee may pick, in lifecycle
// order. Any of them may be chosen from any other while the task is not
// validated.
func UserSelectableStatuses() []string {
	return []string{StatusTodo, StatusInProgress, StatusDone}
}

type User struct {
	ID           int64  `json:"id"`
	Nom          string `json:"nom"`
	Prenom       string `json:"prenom"`
	Email        string `json:"email"`
	Telephone    string `json:"telephone"`
	PhotoProfile string `json:"photo_profile,omitempty"`
	Role         string `json:"role"`
	CreatedAt    string `json:"created_at,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Role == "admin"
}

type TaskOwner struct {
	ID     int64  `json:"id"`
	Nom    string `json:"nom"`
	Prenom string `json:"prenom"`
	Email  string `json:"email"`
}

type Task struct {
	ID              int64      `json:"id"`
	Titre           string     `json:"titre"`
	Description     string     `json:"description"`
	Statut          string     `json:"statut"`
	NoteUtilisateur *string    `json:"note_utilisateur"`
	ValideParAdmin  bool       `json:"valide_par_admin"`
	DateValidation  *string    `json:"date_validation"`
	CreatedAt       string     `json:"created_at"`
	UpdatedAt       string     `json:"updated_at"`
	UserID          int64      `json:"user_id"`
	AssignedByID    *int64     `json:"assigned_by_id"`
	User            *TaskOwner `json:"user"`
}

// Validated reports whether the admin has signed the task off. The status
// value and the flag travel together on the wire; either one counts.
func (t Task) Validated() bool {
	return t.ValideParAdmin || t.Statut == StatusValidated
}

// CanValidate reports whether the task is sitting in the admin's pending
// queue: reported finished, not yet signed off.
func (t Task) CanValidate() bool {
	return t.Statut == StatusDone && !t.ValideParAdmin
}

// PendingValidation filters the tasks an admin still has to review.
func PendingValidation(tasks []Task) []Task {
	var pending []Task
	for _, task := range tasks {
		if task.CanValidate() {
			pending = append(pending, task)
		}
	}
	return pending
}

// ValidatedTasks filters the tasks already signed off.
func ValidatedTasks(tasks []Task) []Task {
	var validated []Task
	for _, task := range tasks {
		if task.Validated() {
			validated = append(validated, task)
		}
	}
	return validated
}

type RegisterData struct {
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
}

type LoginResponse struct {
	Message       string `json:"message"`
	Token         string `json:"token"`
	User          User   `json:"user"`
	ExpiresInDays int    `json:"expires_in_days"`
}

type CreateUserData struct {
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

type CreateTaskData struct {
	UserID      int64  `json:"user_id"`
	Titre       string `json:"titre"`
	Description string `json:"description"`
}

// TaskUpdate is the admin partial update; nil fields are left untouched.
type TaskUpdate struct {
	Titre       *string `json:"titre,omitempty"`
	Description *string `json:"description,omitempty"`
	Statut      *string `json:"statut,omitempty"`
}
