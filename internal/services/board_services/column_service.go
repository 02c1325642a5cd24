package board_services

import (
	"context"

	"github.com/Goldexcool/TaskTrekBackend/internal/apperror"
	"github.com/Goldexcool/TaskTrekBackend/internal/model/board_model"
	"github.com/Goldexcool/TaskTrekBackend/internal/rbac"
)

type ColumnService struct {
	Columns ColumnStore
	Boards  BoardStore
	Teams   TeamStore
	Tasks   TaskStore

	gate accessGate
}

func NewColumnService(columns ColumnStore, boards BoardStore, teams TeamStore, tasks TaskStore) *ColumnService {
	return &ColumnService{
		Columns: columns, Boards: boards, Teams: teams, Tasks: tasks,
		gate: accessGate{teams: teams},
	}
}

// boardOf walks column -> board. A column whose board no longer resolves is
// an orphan and reads as not found.
func (s *ColumnService) boardOf(ctx context.Context, col *board_model.Column) (*board_model.Board, error) {
	b, err := s.Boards.GetByID(ctx, col.BoardID)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return nil, apperror.NotFound("column not found")
		}
		return nil, err
	}
	return b, nil
}

func (s *ColumnService) CreateColumn(ctx context.Context, userID, boardID, title string) (*board_model.Column, error) {
	if title == "" {
		return nil, apperror.Validation("column title is required")
	}

	b, err := s.Boards.GetByID(ctx, boardID)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return nil, apperror.ParentNotFound("board not found")
		}
		return nil, err
	}
	if _, err := s.gate.requireBoard(ctx, b, userID, rbac.OpCreateChild); err != nil {
		return nil, err
	}

	max, err := s.Columns.MaxPosition(ctx, boardID)
	if err != nil {
		return nil, err
	}
	col := &board_model.Column{Title: title, BoardID: boardID, Position: max + 1}
	if err := s.Columns.Create(ctx, col); err != nil {
		return nil, err
	}
	return col, nil
}

func (s *ColumnService) RenameColumn(ctx context.Context, userID, columnID, title string) (*board_model.Column, error) {
	if title == "" {
		return nil, apperror.Validation("column title is required")
	}

	col, err := s.Columns.GetByID(ctx, columnID)
	if err != nil {
		return nil, err
	}
	b, err := s.boardOf(ctx, col)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.requireBoard(ctx, b, userID, rbac.OpUpdate); err != nil {
		return nil, err
	}

	if err := s.Columns.Rename(ctx, columnID, title); err != nil {
		return nil, err
	}
	col.Title = title
	return col, nil
}

// MoveColumn sets the column's display position. Ties keep insertion order,
// so siblings are not renumbered.
func (s *ColumnService) MoveColumn(ctx context.Context, userID, columnID string, position int) (*board_model.Column, error) {
	if position < 0 {
		return nil, apperror.Validation("position must not be negative")
	}

	col, err := s.Columns.GetByID(ctx, columnID)
	if err != nil {
		return nil, err
	}
	b, err := s.boardOf(ctx, col)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.requireBoard(ctx, b, userID, rbac.OpUpdate); err != nil {
		return nil, err
	}

	if err := s.Columns.SetPosition(ctx, columnID, position); err != nil {
		return nil, err
	}
	col.Position = position
	return col, nil
}

// DeleteColumn cascades through the column's tasks.
func (s *ColumnService) DeleteColumn(ctx context.Context, userID, columnID string) error {
	col, err := s.Columns.GetByID(ctx, columnID)
	if err != nil {
		return err
	}
	b, err := s.boardOf(ctx, col)
	if err != nil {
		return err
	}
	if _, err := s.gate.requireBoard(ctx, b, userID, rbac.OpDelete); err != nil {
		return err
	}

	h := hierarchy{teams: s.Teams, boards: s.Boards, columns: s.Columns, tasks: s.Tasks}
	plan, err := h.columnPlan(ctx, columnID)
	if err != nil {
		return err
	}
	return h.run(ctx, plan, "column")
}
