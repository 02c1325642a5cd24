package board_services

import (
	"context"
	"fmt"

	"github.com/Goldexcool/TaskTrekBackend/internal/apperror"
)

// Cascading deletes are explicit plans: enumerate the whole subtree, then
// delete leaf-first (tasks, columns, boards, team). The store gives us
// per-document atomicity only, so an interrupted plan reports exactly which
// descendants were removed and which remain via a PartialFailure error;
// retrying the plan skips already-deleted documents.

type deleteStep struct {
	kind string // "task", "column", "board" or "team"
	id   string
}

type hierarchy struct {
	teams   TeamStore
	boards  BoardStore
	columns ColumnStore
	tasks   TaskStore
}

// boardPlan enumerates a board subtree leaf-first, ending with the board.
func (h hierarchy) boardPlan(ctx context.Context, boardID string) ([]deleteStep, error) {
	cols, err := h.columns.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate columns of board %s: %w", boardID, err)
	}

	var plan []deleteStep
	for _, col := range cols {
		tasks, err := h.tasks.ListByColumn(ctx, col.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate tasks of column %s: %w", col.ID, err)
		}
		for _, t := range tasks {
			plan = append(plan, deleteStep{kind: "task", id: t.ID})
		}
		plan = append(plan, deleteStep{kind: "column", id: col.ID})
	}
	return append(plan, deleteStep{kind: "board", id: boardID}), nil
}

// columnPlan enumerates a column's tasks, ending with the column.
func (h hierarchy) columnPlan(ctx context.Context, columnID string) ([]deleteStep, error) {
	tasks, err := h.tasks.ListByColumn(ctx, columnID)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate tasks of column %s: %w", columnID, err)
	}

	var plan []deleteStep
	for _, t := range tasks {
		plan = append(plan, deleteStep{kind: "task", id: t.ID})
	}
	return append(plan, deleteStep{kind: "column", id: columnID}), nil
}

// teamPlan covers every board subtree of the team, ending with the team.
func (h hierarchy) teamPlan(ctx context.Context, teamID string) ([]deleteStep, error) {
	boards, err := h.boards.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate boards of team %s: %w", teamID, err)
	}

	var plan []deleteStep
	for _, b := range boards {
		sub, err := h.boardPlan(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		plan = append(plan, sub...)
	}
	return append(plan, deleteStep{kind: "team", id: teamID}), nil
}

// run executes the plan in order. A step that finds its document already gone
// is a success; a store failure stops the cascade and surfaces the gap.
func (h hierarchy) run(ctx context.Context, plan []deleteStep, what string) error {
	deleted := make([]string, 0, len(plan))
	for i, step := range plan {
		var err error
		switch step.kind {
		case "task":
			_, err = h.tasks.Delete(ctx, step.id)
		case "column":
			_, err = h.columns.Delete(ctx, step.id)
		case "board":
			_, err = h.boards.Delete(ctx, step.id)
		case "team":
			_, err = h.teams.Delete(ctx, step.id)
		default:
			err = fmt.Errorf("unknown delete step kind %q", step.kind)
		}
		if err != nil {
			remaining := make([]string, 0, len(plan)-i)
			for _, rest := range plan[i:] {
				remaining = append(remaining, rest.id)
			}
			return apperror.PartialDelete(
				fmt.Sprintf("%s delete interrupted", what), deleted, remaining, err)
		}
		deleted = append(deleted, step.id)
	}
	return nil
}
