package board_services

import (
	"context"
	"fmt"

	"github.com/Goldexcool/TaskTrekBackend/internal/apperror"
	"github.com/Goldexcool/TaskTrekBackend/internal/model/board_model"
	"github.com/Goldexcool/TaskTrekBackend/internal/rbac"
)

type BoardService struct {
	Boards   BoardStore
	Teams    TeamStore
	Columns  ColumnStore
	Tasks    TaskStore
	Users    UserStore
	Notifier Notifier

	gate accessGate
}

func NewBoardService(boards BoardStore, teams TeamStore, columns ColumnStore, tasks TaskStore, users UserStore, n Notifier) *BoardService {
	return &BoardService{
		Boards: boards, Teams: teams, Columns: columns, Tasks: tasks, Users: users, Notifier: n,
		gate: accessGate{teams: teams},
	}
}

func (s *BoardService) hierarchy() hierarchy {
	return hierarchy{teams: s.Teams, boards: s.Boards, columns: s.Columns, tasks: s.Tasks}
}

// CreateBoard requires an existing team and at least member on it. The
// creator becomes a board admin and the board is seeded with the default
// columns.
func (s *BoardService) CreateBoard(ctx context.Context, userID, teamID, title, description string) (*board_model.Board, error) {
	if title == "" {
		return nil, apperror.Validation("board title is required")
	}

	team, err := s.Teams.GetByID(ctx, teamID)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return nil, apperror.ParentNotFound("team not found")
		}
		return nil, err
	}
	if _, err := requireTeam(team, userID, rbac.OpCreateChild); err != nil {
		return nil, err
	}

	b := &board_model.Board{
		Title:       title,
		Description: description,
		TeamID:      teamID,
		CreatedBy:   userID,
		Members:     []board_model.Member{{UserID: userID, Role: rbac.RoleAdmin}},
	}
	if err := s.Boards.Create(ctx, b); err != nil {
		return nil, err
	}

	for i, colTitle := range board_model.DefaultColumnTitles {
		col := &board_model.Column{Title: colTitle, BoardID: b.ID, Position: i + 1}
		if err := s.Columns.Create(ctx, col); err != nil {
			return nil, fmt.Errorf("failed to seed default columns: %w", err)
		}
	}
	return b, nil
}

// GetBoard returns the board with its columns and their tasks, ordered by
// position.
func (s *BoardService) GetBoard(ctx context.Context, userID, boardID string) (*board_model.BoardWithColumns, error) {
	b, err := s.Boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.requireBoard(ctx, b, userID, rbac.OpRead); err != nil {
		return nil, err
	}

	cols, err := s.Columns.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	out := &board_model.BoardWithColumns{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		TeamID:      b.TeamID,
		Members:     b.Members,
		Columns:     make([]*board_model.ColumnWithTasks, 0, len(cols)),
	}
	for _, col := range cols {
		tasks, err := s.Tasks.ListByColumn(ctx, col.ID)
		if err != nil {
			return nil, err
		}
		out.Columns = append(out.Columns, &board_model.ColumnWithTasks{
			ID:       col.ID,
			Title:    col.Title,
			Position: col.Position,
			Tasks:    tasks,
		})
	}
	return out, nil
}

// ListBoards returns the team's boards. Principals with no team role still
// see the boards they were added to directly.
func (s *BoardService) ListBoards(ctx context.Context, userID, teamID string) ([]*board_model.Board, error) {
	team, err := s.Teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	boards, err := s.Boards.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.MemberRole(userID).AtLeast(rbac.RoleViewer) {
		return boards, nil
	}

	var visible []*board_model.Board
	for _, b := range boards {
		if b.MemberRole(userID) != rbac.RoleNone {
			visible = append(visible, b)
		}
	}
	if len(visible) == 0 {
		return nil, apperror.Forbidden(apperror.ReasonNotAMember, "you are not a member")
	}
	return visible, nil
}

func (s *BoardService) UpdateBoard(ctx context.Context, userID, boardID, title, description string) (*board_model.Board, error) {
	b, err := s.Boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.requireBoard(ctx, b, userID, rbac.OpUpdate); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, apperror.Validation("board title is required")
	}

	if err := s.Boards.UpdateInfo(ctx, boardID, title, description); err != nil {
		return nil, err
	}
	b.Title = title
	b.Description = description
	return b, nil
}

// DeleteBoard cascades through the board's columns and tasks.
func (s *BoardService) DeleteBoard(ctx context.Context, userID, boardID string) error {
	b, err := s.Boards.GetByID(ctx, boardID)
	if err != nil {
		return err
	}
	if _, err := s.gate.requireBoard(ctx, b, userID, rbac.OpDelete); err != nil {
		return err
	}

	h := s.hierarchy()
	plan, err := h.boardPlan(ctx, boardID)
	if err != nil {
		return err
	}
	return h.run(ctx, plan, "board")
}

// AddMember adds a user to the board's own membership set, which is
// independent of the owning team's.
func (s *BoardService) AddMember(ctx context.Context, actorID, boardID, email, roleStr string) (*board_model.Member, error) {
	b, err := s.Boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	actorRole, err := s.gate.requireBoard(ctx, b, actorID, rbac.OpManageMembers)
	if err != nil {
		return nil, err
	}

	role, ok := rbac.ParseRole(roleStr)
	if !ok {
		return nil, apperror.Validation("invalid role")
	}
	if !actorRole.AtLeast(role) {
		return nil, apperror.Forbidden(apperror.ReasonInsufficientRole,
			"cannot grant a role higher than your own")
	}

	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	m := board_model.Member{UserID: u.ID, Role: role}
	if err := s.Boards.AddMember(ctx, boardID, m); err != nil {
		return nil, err
	}

	notify(s.Notifier, Event{Kind: EventBoardMemberAdded, To: u.Email, Title: b.Title})
	return &m, nil
}

// RemoveMember allows self-removal at any role; removing someone else takes
// manage-members.
func (s *BoardService) RemoveMember(ctx context.Context, actorID, boardID, targetID string) error {
	b, err := s.Boards.GetByID(ctx, boardID)
	if err != nil {
		return err
	}
	if actorID != targetID {
		if _, err := s.gate.requireBoard(ctx, b, actorID, rbac.OpManageMembers); err != nil {
			return err
		}
	}

	removed, err := s.Boards.RemoveMember(ctx, boardID, targetID)
	if err != nil {
		return err
	}
	if !removed {
		return apperror.NotFound("user is not a member of this board")
	}
	return nil
}
