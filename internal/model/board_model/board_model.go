package board_model

import (
	"time"

	"github.com/Goldexcool/TaskTrekBackend/internal/rbac"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Member is one (user, role) entry in a team's or board's membership set.
type Member struct {
	UserID string    `bson:"user_id" json:"user_id"`
	Role   rbac.Role `bson:"role" json:"role"`
}

type Team struct {
	ID          string     `bson:"_id" json:"id"`
	Name        string     `bson:"name" json:"name"`
	Description string     `bson:"description" json:"description"`
	OwnerID     string     `bson:"owner_id" json:"owner_id"`
	Members     []Member   `bson:"members" json:"members"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// MemberRole returns the role held by userID on the team. The owner always
// resolves to owner, whether or not the members list agrees.
func (t *Team) MemberRole(userID string) rbac.Role {
	if userID == t.OwnerID {
		return rbac.RoleOwner
	}
	for _, m := range t.Members {
		if m.UserID == userID {
			return m.Role
		}
	}
	return rbac.RoleNone
}

// Board membership is its own set, not derived from the owning team's.
type Board struct {
	ID          string     `bson:"_id" json:"id"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description" json:"description"`
	TeamID      string     `bson:"team_id" json:"team_id"`
	CreatedBy   string     `bson:"created_by" json:"created_by"`
	Members     []Member   `bson:"members" json:"members"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// MemberRole returns the board-scoped role of userID, or RoleNone.
func (b *Board) MemberRole(userID string) rbac.Role {
	for _, m := range b.Members {
		if m.UserID == userID {
			return m.Role
		}
	}
	return rbac.RoleNone
}

type Column struct {
	ID       string `bson:"_id" json:"id"`
	Title    string `bson:"title" json:"title"`
	BoardID  string `bson:"board_id" json:"-"`
	Position int    `bson:"position" json:"position"`
}

type Task struct {
	ID          string     `bson:"_id" json:"id"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description" json:"description"`
	ColumnID    string     `bson:"column_id" json:"column_id"`
	Position    int        `bson:"position" json:"position"`
	Completed   bool       `bson:"completed" json:"completed"`
	AssigneeID  string     `bson:"assignee_id,omitempty" json:"assignee_id,omitempty"`
	Priority    Priority   `bson:"priority" json:"priority"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

type ColumnWithTasks struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Position int     `json:"position"`
	Tasks    []*Task `json:"tasks"`
}

type BoardWithColumns struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	TeamID      string             `json:"team_id"`
	Members     []Member           `json:"members"`
	Columns     []*ColumnWithTasks `json:"columns"`
}

// Titles of the columns seeded onto a freshly created board.
var DefaultColumnTitles = []string{"Need to do", "In progress", "Ready"}
