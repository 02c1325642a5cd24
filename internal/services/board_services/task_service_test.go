package board_services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Goldexcool/TaskTrekBackend/internal/apperror"
	"github.com/Goldexcool/TaskTrekBackend/internal/model/board_model"
	"github.com/Goldexcool/TaskTrekBackend/internal/rbac"
)

func TestCreateTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, cols := f.seedBoard(t)

	first, err := f.taskSvc.CreateTask(ctx, memberID, cols[0].ID, CreateTaskInput{Title: "write docs"})
	require.NoError(t, err)
	require.Equal(t, 1, first.Position)
	require.Equal(t, board_model.PriorityMedium, first.Priority)

	second, err := f.taskSvc.CreateTask(ctx, memberID, cols[0].ID, CreateTaskInput{
		Title:      "review docs",
		Priority:   board_model.PriorityHigh,
		AssigneeID: viewerID,
	})
	require.NoError(t, err)
	require.Equal(t, 2, second.Position)
	require.Equal(t, viewerID, second.AssigneeID)

	// Assigning at creation notifies the assignee.
	require.Len(t, f.mail.events, 1)
	require.Equal(t, EventTaskAssigned, f.mail.events[0].Kind)
	require.Equal(t, "viewer@example.com", f.mail.events[0].To)
}

func TestCreateTaskRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, cols := f.seedBoard(t)

	cases := []struct {
		name   string
		user   string
		column string
		in     CreateTaskInput
		check  func(t *testing.T, err error)
	}{
		{
			name: "missing column", user: memberID, column: "no-such-column",
			in: CreateTaskInput{Title: "x"},
			check: func(t *testing.T, err error) {
				require.Equal(t, apperror.ReasonParentNotFound, apperror.ReasonOf(err))
			},
		},
		{
			name: "viewer cannot create", user: viewerID, column: cols[0].ID,
			in: CreateTaskInput{Title: "x"},
			check: func(t *testing.T, err error) {
				require.Equal(t, apperror.ReasonInsufficientRole, apperror.ReasonOf(err))
			},
		},
		{
			name: "empty title", user: memberID, column: cols[0].ID,
			in: CreateTaskInput{},
			check: func(t *testing.T, err error) {
				require.True(t, apperror.IsKind(err, apperror.KindValidation))
			},
		},
		{
			name: "bogus priority", user: memberID, column: cols[0].ID,
			in: CreateTaskInput{Title: "x", Priority: "urgent-ish"},
			check: func(t *testing.T, err error) {
				require.True(t, apperror.IsKind(err, apperror.KindValidation))
			},
		},
		{
			name: "unknown assignee", user: memberID, column: cols[0].ID,
			in: CreateTaskInput{Title: "x", AssigneeID: "nobody"},
			check: func(t *testing.T, err error) {
				require.True(t, apperror.IsKind(err, apperror.KindNotFound))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.taskSvc.CreateTask(ctx, tc.user, tc.column, tc.in)
			tc.check(t, err)
		})
	}
}

func TestUpdateTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, cols := f.seedBoard(t)

	task, err := f.taskSvc.CreateTask(ctx, memberID, cols[0].ID, CreateTaskInput{Title: "draft"})
	require.NoError(t, err)

	updated, err := f.taskSvc.UpdateTask(ctx, memberID, task.ID, "final", "ready to ship", board_model.PriorityLow)
	require.NoError(t, err)
	require.Equal(t, "final", updated.Title)
	require.Equal(t, board_model.PriorityLow, updated.Priority)

	_, err = f.taskSvc.UpdateTask(ctx, viewerID, task.ID, "nope", "", board_model.PriorityLow)
	require.Equal(t, apperror.ReasonInsufficientRole, apperror.ReasonOf(err))
}

func TestMoveTaskAppend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, cols := f.seedBoard(t)

	a, err := f.taskSvc.CreateTask(ctx, memberID, cols[0].ID, CreateTaskInput{Title: "a"})
	require.NoError(t, err)
	_, err = f.taskSvc.CreateTask(ctx, memberID, cols[1].ID, CreateTaskInput{Title: "b"})
	require.NoError(t, err)

	// No target position: append after the target column's last task.
	moved, err := f.taskSvc.MoveTask(ctx, memberID, a.ID, cols[1].ID, nil)
	require.NoError(t, err)
	require.Equal(t, cols[1].ID, moved.ColumnID)
	require.Equal(t, 2, moved.Position)
}

func TestMoveTaskInsertShiftsRight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, cols := f.seedBoard(t)

	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		task, err := f.taskSvc.CreateTask(ctx, memberID, cols[1].ID, CreateTaskInput{Title: title})
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}
	incoming, err := f.taskSvc.CreateTask(ctx, memberID, cols[0].ID, CreateTaskInput{Title: "x"})
	require.NoError(t, err)

	pos := 2
	moved, err := f.taskSvc.MoveTask(ctx, memberID, incoming.ID, cols[1].ID, &pos)
	require.NoError(t, err)
	require.Equal(t, 2, moved.Position)

	// a keeps position 1; b and c shifted right to make room.
	order, err := f.tasks.ListByColumn(ctx, cols[1].ID)
	require.NoError(t, err)
	require.Len(t, order, 4)
	require.Equal(t, []string{ids[0], incoming.ID, ids[1], ids[2]},
		[]string{order[0].ID, order[1].ID, order[2].ID, order[3].ID})

	// Repeating the same move changes nothing: the shift skips the task
	// being moved.
	_, err = f.taskSvc.MoveTask(ctx, memberID, incoming.ID, cols[1].ID, &pos)
	require.NoError(t, err)
	again, err := f.tasks.ListByColumn(ctx, cols[1].ID)
	require.NoError(t, err)
	for i := range order {
		require.Equal(t, order[i].ID, again[i].ID)
	}
}

func TestMoveTaskDenied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, cols := f.seedBoard(t)

	task, err := f.taskSvc.CreateTask(ctx, memberID, cols[0].ID, CreateTaskInput{Title: "pinned"})
	require.NoError(t, err)

	_, err = f.taskSvc.MoveTask(ctx, viewerID, task.ID, cols[1].ID, nil)
	require.Equal(t, apperror.ReasonInsufficientRole, apperror.ReasonOf(err))

	_, err = f.taskSvc.MoveTask(ctx, memberID, task.ID, "no-such-column", nil)
	require.Equal(t, apperror.ReasonParentNotFound, apperror.ReasonOf(err))

	neg := -1
	_, err = f.taskSvc.MoveTask(ctx, memberID, task.ID, cols[1].ID, &neg)
	require.True(t, apperror.IsKind(err, apperror.KindValidation))
}

// Moving a task across boards requires update rights on both sides.
func TestMoveTaskAcrossBoards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, srcCols := f.seedBoard(t)

	other, err := f.boardSvc.CreateBoard(ctx, adminID, f.teamID, "Ops", "")
	require.NoError(t, err)
	dstCols, err := f.columns.ListByBoard(ctx, other.ID)
	require.NoError(t, err)

	task, err := f.taskSvc.CreateTask(ctx, memberID, srcCols[0].ID, CreateTaskInput{Title: "migrate"})
	require.NoError(t, err)

	moved, err := f.taskSvc.MoveTask(ctx, memberID, task.ID, dstCols[0].ID, nil)
	require.NoError(t, err)
	require.Equal(t, dstCols[0].ID, moved.ColumnID)

	// A direct viewer on the source board cannot pull its tasks out, even
	// with enough role on the target.
	back, err := f.taskSvc.CreateTask(ctx, memberID, dstCols[0].ID, CreateTaskInput{Title: "stay"})
	require.NoError(t, err)
	require.NoError(t, f.boards.AddMember(ctx, other.ID,
		board_model.Member{UserID: memberID, Role: rbac.RoleViewer}))

	_, err = f.taskSvc.MoveTask(ctx, memberID, back.ID, srcCols[0].ID, nil)
	require.Equal(t, apperror.ReasonInsufficientRole, apperror.ReasonOf(err))
}

func TestCompleteTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, cols := f.seedBoard(t)

	task, err := f.taskSvc.CreateTask(ctx, memberID, cols[0].ID, CreateTaskInput{
		Title: "triage", AssigneeID: viewerID,
	})
	require.NoError(t, err)

	// The assignee may complete and reopen regardless of role; any other
	// viewer may not.
	done, err := f.taskSvc.CompleteTask(ctx, viewerID, task.ID)
	require.NoError(t, err)
	require.True(t, done.Completed)

	reopened, err := f.taskSvc.ReopenTask(ctx, viewerID, task.ID)
	require.NoError(t, err)
	require.False(t, reopened.Completed)

	require.NoError(t, f.teams.AddMember(ctx, f.teamID,
		board_model.Member{UserID: outsiderID, Role: rbac.RoleViewer}))
	_, err = f.taskSvc.CompleteTask(ctx, outsiderID, task.ID)
	require.Equal(t, apperror.ReasonInsufficientRole, apperror.ReasonOf(err))
}

func TestAssignTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, cols := f.seedBoard(t)

	task, err := f.taskSvc.CreateTask(ctx, memberID, cols[0].ID, CreateTaskInput{Title: "handoff"})
	require.NoError(t, err)

	assigned, err := f.taskSvc.AssignTask(ctx, memberID, task.ID, adminID)
	require.NoError(t, err)
	require.Equal(t, adminID, assigned.AssigneeID)
	require.Equal(t, EventTaskAssigned, f.mail.events[len(f.mail.events)-1].Kind)
	require.Equal(t, "admin@example.com", f.mail.events[len(f.mail.events)-1].To)

	_, err = f.taskSvc.AssignTask(ctx, memberID, task.ID, "nobody")
	require.True(t, apperror.IsKind(err, apperror.KindNotFound))

	unassigned, err := f.taskSvc.UnassignTask(ctx, memberID, task.ID)
	require.NoError(t, err)
	require.Empty(t, unassigned.AssigneeID)
}

func TestDeleteTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, cols := f.seedBoard(t)

	task, err := f.taskSvc.CreateTask(ctx, memberID, cols[0].ID, CreateTaskInput{Title: "gone"})
	require.NoError(t, err)

	err = f.taskSvc.DeleteTask(ctx, memberID, task.ID)
	require.Equal(t, apperror.ReasonInsufficientRole, apperror.ReasonOf(err))

	require.NoError(t, f.taskSvc.DeleteTask(ctx, adminID, task.ID))
	_, err = f.tasks.GetByID(ctx, task.ID)
	require.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

// A task whose column or board vanished reads as not found on every
// operation.
func TestTaskDanglingParent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, cols := f.seedBoard(t)

	task, err := f.taskSvc.CreateTask(ctx, memberID, cols[0].ID, CreateTaskInput{Title: "orphan"})
	require.NoError(t, err)

	_, err = f.columns.Delete(ctx, cols[0].ID)
	require.NoError(t, err)

	_, err = f.taskSvc.CompleteTask(ctx, memberID, task.ID)
	require.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
