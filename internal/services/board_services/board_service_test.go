package board_services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Goldexcool/TaskTrekBackend/internal/apperror"
	"github.com/Goldexcool/TaskTrekBackend/internal/model/board_model"
	"github.com/Goldexcool/TaskTrekBackend/internal/rbac"
)

func TestCreateBoard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.boardSvc.CreateBoard(ctx, memberID, f.teamID, "Roadmap", "q4 planning")
	require.NoError(t, err)
	require.Equal(t, f.teamID, b.TeamID)
	require.Equal(t, memberID, b.CreatedBy)

	// The creator joins the board as admin even though they are only a
	// member on the team.
	require.Equal(t, rbac.RoleAdmin, b.MemberRole(memberID))

	cols, err := f.columns.ListByBoard(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, cols, len(board_model.DefaultColumnTitles))
	for i, col := range cols {
		require.Equal(t, board_model.DefaultColumnTitles[i], col.Title)
		require.Equal(t, i+1, col.Position)
	}
}

func TestCreateBoardDenied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.boardSvc.CreateBoard(ctx, viewerID, f.teamID, "Roadmap", "")
	require.Equal(t, apperror.ReasonInsufficientRole, apperror.ReasonOf(err))

	_, err = f.boardSvc.CreateBoard(ctx, outsiderID, f.teamID, "Roadmap", "")
	require.Equal(t, apperror.ReasonNotAMember, apperror.ReasonOf(err))

	_, err = f.boardSvc.CreateBoard(ctx, memberID, "no-such-team", "Roadmap", "")
	require.Equal(t, apperror.ReasonParentNotFound, apperror.ReasonOf(err))

	_, err = f.boardSvc.CreateBoard(ctx, memberID, f.teamID, "", "")
	require.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestGetBoardTeamRoleFallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, cols := f.seedBoard(t)

	_, err := f.taskSvc.CreateTask(ctx, ownerID, cols[0].ID, CreateTaskInput{Title: "ship"})
	require.NoError(t, err)

	// viewerID has no board membership; their team role carries over.
	full, err := f.boardSvc.GetBoard(ctx, viewerID, b.ID)
	require.NoError(t, err)
	require.Len(t, full.Columns, 3)
	require.Len(t, full.Columns[0].Tasks, 1)

	_, err = f.boardSvc.GetBoard(ctx, outsiderID, b.ID)
	require.Equal(t, apperror.ReasonNotAMember, apperror.ReasonOf(err))
}

// A role granted directly on the board wins over the one inherited from the
// team, even when the board role is weaker.
func TestBoardRoleShadowsTeamRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, _ := f.seedBoard(t)

	require.NoError(t, f.boards.AddMember(ctx, b.ID,
		board_model.Member{UserID: adminID, Role: rbac.RoleViewer}))

	err := f.boardSvc.DeleteBoard(ctx, adminID, b.ID)
	require.Equal(t, apperror.ReasonInsufficientRole, apperror.ReasonOf(err))
}

func TestListBoards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, _ := f.seedBoard(t)

	// Team members see every board of the team.
	boards, err := f.boardSvc.ListBoards(ctx, viewerID, f.teamID)
	require.NoError(t, err)
	require.Len(t, boards, 1)

	// An outsider added directly to one board sees only that board.
	_, err = f.boardSvc.ListBoards(ctx, outsiderID, f.teamID)
	require.Equal(t, apperror.ReasonNotAMember, apperror.ReasonOf(err))

	require.NoError(t, f.boards.AddMember(ctx, b.ID,
		board_model.Member{UserID: outsiderID, Role: rbac.RoleViewer}))
	boards, err = f.boardSvc.ListBoards(ctx, outsiderID, f.teamID)
	require.NoError(t, err)
	require.Len(t, boards, 1)
	require.Equal(t, b.ID, boards[0].ID)
}

func TestUpdateBoard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, _ := f.seedBoard(t)

	updated, err := f.boardSvc.UpdateBoard(ctx, memberID, b.ID, "Sprint 13", "carried over")
	require.NoError(t, err)
	require.Equal(t, "Sprint 13", updated.Title)

	_, err = f.boardSvc.UpdateBoard(ctx, viewerID, b.ID, "Sprint 14", "")
	require.Equal(t, apperror.ReasonInsufficientRole, apperror.ReasonOf(err))
}

// The team owner can delete a board they never joined: their team role is
// resolved through the hierarchy and clears the delete gate.
func TestDeleteBoardAsTeamOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.boardSvc.CreateBoard(ctx, memberID, f.teamID, "Roadmap", "")
	require.NoError(t, err)
	require.Equal(t, rbac.RoleNone, b.MemberRole(ownerID))

	cols, err := f.columns.ListByBoard(ctx, b.ID)
	require.NoError(t, err)
	task, err := f.taskSvc.CreateTask(ctx, memberID, cols[1].ID, CreateTaskInput{Title: "drain"})
	require.NoError(t, err)

	// The creator is only a team member; board-admin membership does not
	// extend to deleting through the team, but their board role does allow
	// it. The interesting case is the owner with no board membership.
	require.NoError(t, f.boardSvc.DeleteBoard(ctx, ownerID, b.ID))

	_, err = f.boards.GetByID(ctx, b.ID)
	require.True(t, apperror.IsKind(err, apperror.KindNotFound))
	for _, c := range cols {
		_, err = f.columns.GetByID(ctx, c.ID)
		require.True(t, apperror.IsKind(err, apperror.KindNotFound))
	}
	_, err = f.tasks.GetByID(ctx, task.ID)
	require.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestDeleteBoardDeniedForMember(t *testing.T) {
	f := newFixture(t)
	b, _ := f.seedBoard(t)

	err := f.boardSvc.DeleteBoard(context.Background(), memberID, b.ID)
	require.Equal(t, apperror.ReasonInsufficientRole, apperror.ReasonOf(err))
}

func TestBoardMembers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, _ := f.seedBoard(t)

	m, err := f.boardSvc.AddMember(ctx, ownerID, b.ID, "outsider@example.com", "member")
	require.NoError(t, err)
	require.Equal(t, rbac.RoleMember, m.Role)
	require.Equal(t, EventBoardMemberAdded, f.mail.events[len(f.mail.events)-1].Kind)

	// Self-removal needs no role at all; removing others does.
	err = f.boardSvc.RemoveMember(ctx, outsiderID, b.ID, outsiderID)
	require.NoError(t, err)

	err = f.boardSvc.RemoveMember(ctx, viewerID, b.ID, ownerID)
	require.Equal(t, apperror.ReasonInsufficientRole, apperror.ReasonOf(err))

	err = f.boardSvc.RemoveMember(ctx, ownerID, b.ID, outsiderID)
	require.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
