package board_services

import (
	"context"
	"fmt"

	"github.com/Goldexcool/TaskTrekBackend/internal/apperror"
	"github.com/Goldexcool/TaskTrekBackend/internal/model/board_model"
	"github.com/Goldexcool/TaskTrekBackend/internal/rbac"
)

// accessGate resolves a principal's effective role and checks it against the
// policy table in internal/rbac. Every mutation in this package goes through
// it; there are no per-handler ownership checks anywhere else.
type accessGate struct {
	teams TeamStore
}

// boardRole resolves the principal's effective role for a board-scoped
// operation: the board's own membership wins when the principal appears
// there, otherwise the role on the owning team applies. A board whose team
// no longer resolves grants nothing beyond its own membership.
func (g accessGate) boardRole(ctx context.Context, b *board_model.Board, userID string) (rbac.Role, error) {
	if role := b.MemberRole(userID); role != rbac.RoleNone {
		return role, nil
	}
	team, err := g.teams.GetByID(ctx, b.TeamID)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return rbac.RoleNone, nil
		}
		return rbac.RoleNone, err
	}
	return team.MemberRole(userID), nil
}

// requireRole checks role against the policy table for op. A missing role is
// NOT_A_MEMBER, never a lookup error.
func requireRole(role rbac.Role, op rbac.Op) error {
	if role == rbac.RoleNone {
		return apperror.Forbidden(apperror.ReasonNotAMember, "you are not a member")
	}
	if !rbac.Can(role, op) {
		return apperror.Forbidden(apperror.ReasonInsufficientRole,
			fmt.Sprintf("role %q cannot perform %s", role, op))
	}
	return nil
}

func (g accessGate) requireBoard(ctx context.Context, b *board_model.Board, userID string, op rbac.Op) (rbac.Role, error) {
	role, err := g.boardRole(ctx, b, userID)
	if err != nil {
		return rbac.RoleNone, err
	}
	if err := requireRole(role, op); err != nil {
		return rbac.RoleNone, err
	}
	return role, nil
}

func requireTeam(t *board_model.Team, userID string, op rbac.Op) (rbac.Role, error) {
	role := t.MemberRole(userID)
	if err := requireRole(role, op); err != nil {
		return rbac.RoleNone, err
	}
	return role, nil
}
