package board_services

import (
	"context"

	"github.com/Goldexcool/TaskTrekBackend/internal/model/auth_model"
	"github.com/Goldexcool/TaskTrekBackend/internal/model/board_model"
	"github.com/Goldexcool/TaskTrekBackend/internal/rbac"
)

// Store interfaces are declared on the consumer side; the mongo repositories
// in internal/repository/board_repository satisfy them. Delete methods report
// whether a document was actually removed so cascades can treat a retry on an
// already-deleted descendant as a no-op success.

type TeamStore interface {
	Create(ctx context.Context, t *board_model.Team) error
	GetByID(ctx context.Context, teamID string) (*board_model.Team, error)
	ListByMember(ctx context.Context, userID string) ([]*board_model.Team, error)
	UpdateInfo(ctx context.Context, teamID, name, description string) error
	Delete(ctx context.Context, teamID string) (bool, error)
	AddMember(ctx context.Context, teamID string, m board_model.Member) error
	RemoveMember(ctx context.Context, teamID, userID string) (bool, error)
	SetMemberRole(ctx context.Context, teamID, userID string, role rbac.Role) (bool, error)
	TransferOwner(ctx context.Context, teamID, oldOwnerID, newOwnerID string) error
}

type BoardStore interface {
	Create(ctx context.Context, b *board_model.Board) error
	GetByID(ctx context.Context, boardID string) (*board_model.Board, error)
	ListByTeam(ctx context.Context, teamID string) ([]*board_model.Board, error)
	UpdateInfo(ctx context.Context, boardID, title, description string) error
	Delete(ctx context.Context, boardID string) (bool, error)
	AddMember(ctx context.Context, boardID string, m board_model.Member) error
	RemoveMember(ctx context.Context, boardID, userID string) (bool, error)
}

type ColumnStore interface {
	Create(ctx context.Context, c *board_model.Column) error
	GetByID(ctx context.Context, columnID string) (*board_model.Column, error)
	ListByBoard(ctx context.Context, boardID string) ([]*board_model.Column, error)
	Rename(ctx context.Context, columnID, title string) error
	SetPosition(ctx context.Context, columnID string, position int) error
	Delete(ctx context.Context, columnID string) (bool, error)
	MaxPosition(ctx context.Context, boardID string) (int, error)
}

type TaskStore interface {
	Create(ctx context.Context, t *board_model.Task) error
	GetByID(ctx context.Context, taskID string) (*board_model.Task, error)
	ListByColumn(ctx context.Context, columnID string) ([]*board_model.Task, error)
	UpdateInfo(ctx context.Context, taskID, title, description string, priority board_model.Priority) error
	SetCompleted(ctx context.Context, taskID string, completed bool) error
	SetAssignee(ctx context.Context, taskID, assigneeID string) error
	Delete(ctx context.Context, taskID string) (bool, error)
	MaxPosition(ctx context.Context, columnID string) (int, error)
	ShiftRight(ctx context.Context, columnID string, position int, excludeID string) error
	Move(ctx context.Context, taskID, columnID string, position int) error
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*auth_model.User, error)
	GetByID(ctx context.Context, id string) (*auth_model.User, error)
}

// Notification events. Delivery is fire-and-forget; a nil Notifier disables it.

const (
	EventTeamMemberAdded  = "team_member_added"
	EventBoardMemberAdded = "board_member_added"
	EventTaskAssigned     = "task_assigned"
)

type Event struct {
	Kind  string
	To    string // recipient email address
	Title string // name of the team, board or task involved
}

type Notifier interface {
	Notify(e Event)
}

func notify(n Notifier, e Event) {
	if n != nil {
		n.Notify(e)
	}
}
