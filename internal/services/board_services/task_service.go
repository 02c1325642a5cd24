package board_services

import (
	"context"

	"github.com/Goldexcool/TaskTrekBackend/internal/apperror"
	"github.com/Goldexcool/TaskTrekBackend/internal/model/board_model"
	"github.com/Goldexcool/TaskTrekBackend/internal/rbac"
)

type TaskService struct {
	Tasks    TaskStore
	Columns  ColumnStore
	Boards   BoardStore
	Teams    TeamStore
	Users    UserStore
	Notifier Notifier

	gate accessGate
}

func NewTaskService(tasks TaskStore, columns ColumnStore, boards BoardStore, teams TeamStore, users UserStore, n Notifier) *TaskService {
	return &TaskService{
		Tasks: tasks, Columns: columns, Boards: boards, Teams: teams, Users: users, Notifier: n,
		gate: accessGate{teams: teams},
	}
}

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    board_model.Priority
	AssigneeID  string
}

// boardOfTask walks task -> column -> board for authorization. A dangling
// parent reference anywhere on the walk reads as the task not being found.
func (s *TaskService) boardOfTask(ctx context.Context, t *board_model.Task) (*board_model.Board, error) {
	col, err := s.Columns.GetByID(ctx, t.ColumnID)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return nil, apperror.NotFound("task not found")
		}
		return nil, err
	}
	b, err := s.Boards.GetByID(ctx, col.BoardID)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return nil, apperror.NotFound("task not found")
		}
		return nil, err
	}
	return b, nil
}

func (s *TaskService) CreateTask(ctx context.Context, userID, columnID string, in CreateTaskInput) (*board_model.Task, error) {
	if in.Title == "" {
		return nil, apperror.Validation("task title is required")
	}
	if in.Priority == "" {
		in.Priority = board_model.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, apperror.Validation("invalid priority")
	}

	col, err := s.Columns.GetByID(ctx, columnID)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return nil, apperror.ParentNotFound("column not found")
		}
		return nil, err
	}
	b, err := s.Boards.GetByID(ctx, col.BoardID)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return nil, apperror.ParentNotFound("board not found")
		}
		return nil, err
	}
	if _, err := s.gate.requireBoard(ctx, b, userID, rbac.OpCreateChild); err != nil {
		return nil, err
	}

	var assigneeEmail string
	if in.AssigneeID != "" {
		u, err := s.Users.GetByID(ctx, in.AssigneeID)
		if err != nil {
			return nil, err
		}
		assigneeEmail = u.Email
	}

	max, err := s.Tasks.MaxPosition(ctx, columnID)
	if err != nil {
		return nil, err
	}
	t := &board_model.Task{
		Title:       in.Title,
		Description: in.Description,
		ColumnID:    columnID,
		Position:    max + 1,
		Priority:    in.Priority,
		AssigneeID:  in.AssigneeID,
	}
	if err := s.Tasks.Create(ctx, t); err != nil {
		return nil, err
	}

	if assigneeEmail != "" {
		notify(s.Notifier, Event{Kind: EventTaskAssigned, To: assigneeEmail, Title: t.Title})
	}
	return t, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID, title, description string, priority board_model.Priority) (*board_model.Task, error) {
	if title == "" {
		return nil, apperror.Validation("task title is required")
	}
	if priority == "" {
		priority = board_model.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperror.Validation("invalid priority")
	}

	t, err := s.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	b, err := s.boardOfTask(ctx, t)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.requireBoard(ctx, b, userID, rbac.OpUpdate); err != nil {
		return nil, err
	}

	if err := s.Tasks.UpdateInfo(ctx, taskID, title, description, priority); err != nil {
		return nil, err
	}
	t.Title = title
	t.Description = description
	t.Priority = priority
	return t, nil
}

// MoveTask reassigns the task to targetColumnID. With no target position the
// task is appended; with one, tasks at or after that position in the target
// column shift right to make room. The source column is not renumbered.
func (s *TaskService) MoveTask(ctx context.Context, userID, taskID, targetColumnID string, targetPosition *int) (*board_model.Task, error) {
	if targetPosition != nil && *targetPosition < 0 {
		return nil, apperror.Validation("position must not be negative")
	}

	t, err := s.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	target, err := s.Columns.GetByID(ctx, targetColumnID)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return nil, apperror.ParentNotFound("target column not found")
		}
		return nil, err
	}
	targetBoard, err := s.Boards.GetByID(ctx, target.BoardID)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return nil, apperror.ParentNotFound("target board not found")
		}
		return nil, err
	}
	if _, err := s.gate.requireBoard(ctx, targetBoard, userID, rbac.OpUpdate); err != nil {
		return nil, err
	}

	// Moving across boards also mutates the source board; check it too when
	// it still resolves (an orphaned source imposes nothing).
	if sourceCol, err := s.Columns.GetByID(ctx, t.ColumnID); err == nil && sourceCol.BoardID != targetBoard.ID {
		if sourceBoard, err := s.Boards.GetByID(ctx, sourceCol.BoardID); err == nil {
			if _, err := s.gate.requireBoard(ctx, sourceBoard, userID, rbac.OpUpdate); err != nil {
				return nil, err
			}
		}
	}

	var position int
	if targetPosition == nil {
		max, err := s.Tasks.MaxPosition(ctx, targetColumnID)
		if err != nil {
			return nil, err
		}
		position = max + 1
	} else {
		position = *targetPosition
		if err := s.Tasks.ShiftRight(ctx, targetColumnID, position, taskID); err != nil {
			return nil, err
		}
	}

	if err := s.Tasks.Move(ctx, taskID, targetColumnID, position); err != nil {
		return nil, err
	}
	t.ColumnID = targetColumnID
	t.Position = position
	return t, nil
}

// CompleteTask marks the task done. The assignee may always do this; anyone
// else needs at least member on the board.
func (s *TaskService) CompleteTask(ctx context.Context, userID, taskID string) (*board_model.Task, error) {
	return s.setCompleted(ctx, userID, taskID, true)
}

// ReopenTask moves a completed task back to open, under the same rule as
// CompleteTask.
func (s *TaskService) ReopenTask(ctx context.Context, userID, taskID string) (*board_model.Task, error) {
	return s.setCompleted(ctx, userID, taskID, false)
}

func (s *TaskService) setCompleted(ctx context.Context, userID, taskID string, completed bool) (*board_model.Task, error) {
	t, err := s.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	b, err := s.boardOfTask(ctx, t)
	if err != nil {
		return nil, err
	}
	if userID != t.AssigneeID {
		if _, err := s.gate.requireBoard(ctx, b, userID, rbac.OpUpdate); err != nil {
			return nil, err
		}
	}

	if err := s.Tasks.SetCompleted(ctx, taskID, completed); err != nil {
		return nil, err
	}
	t.Completed = completed
	return t, nil
}

// AssignTask assigns the task to an existing user. Any member may reassign,
// whoever the current assignee is.
func (s *TaskService) AssignTask(ctx context.Context, userID, taskID, assigneeID string) (*board_model.Task, error) {
	t, err := s.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	b, err := s.boardOfTask(ctx, t)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.requireBoard(ctx, b, userID, rbac.OpUpdate); err != nil {
		return nil, err
	}

	u, err := s.Users.GetByID(ctx, assigneeID)
	if err != nil {
		return nil, err
	}

	if err := s.Tasks.SetAssignee(ctx, taskID, assigneeID); err != nil {
		return nil, err
	}
	t.AssigneeID = assigneeID

	notify(s.Notifier, Event{Kind: EventTaskAssigned, To: u.Email, Title: t.Title})
	return t, nil
}

func (s *TaskService) UnassignTask(ctx context.Context, userID, taskID string) (*board_model.Task, error) {
	t, err := s.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	b, err := s.boardOfTask(ctx, t)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.requireBoard(ctx, b, userID, rbac.OpUpdate); err != nil {
		return nil, err
	}

	if err := s.Tasks.SetAssignee(ctx, taskID, ""); err != nil {
		return nil, err
	}
	t.AssigneeID = ""
	return t, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	t, err := s.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	b, err := s.boardOfTask(ctx, t)
	if err != nil {
		return err
	}
	if _, err := s.gate.requireBoard(ctx, b, userID, rbac.OpDelete); err != nil {
		return err
	}

	// Already gone counts as success; the read above raced a concurrent delete.
	_, err = s.Tasks.Delete(ctx, taskID)
	return err
}
