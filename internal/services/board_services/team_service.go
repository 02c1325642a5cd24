package board_services

import (
	"context"

	"github.com/Goldexcool/TaskTrekBackend/internal/apperror"
	"github.com/Goldexcool/TaskTrekBackend/internal/model/board_model"
	"github.com/Goldexcool/TaskTrekBackend/internal/rbac"
)

type TeamService struct {
	Teams    TeamStore
	Boards   BoardStore
	Columns  ColumnStore
	Tasks    TaskStore
	Users    UserStore
	Notifier Notifier
}

func NewTeamService(teams TeamStore, boards BoardStore, columns ColumnStore, tasks TaskStore, users UserStore, n Notifier) *TeamService {
	return &TeamService{Teams: teams, Boards: boards, Columns: columns, Tasks: tasks, Users: users, Notifier: n}
}

func (s *TeamService) hierarchy() hierarchy {
	return hierarchy{teams: s.Teams, boards: s.Boards, columns: s.Columns, tasks: s.Tasks}
}

// CreateTeam makes ownerID the owner and seeds the membership set with an
// owner entry, so a team always has at least one owner.
func (s *TeamService) CreateTeam(ctx context.Context, ownerID, name, description string) (*board_model.Team, error) {
	if name == "" {
		return nil, apperror.Validation("team name is required")
	}

	t := &board_model.Team{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		Members:     []board_model.Member{{UserID: ownerID, Role: rbac.RoleOwner}},
	}
	if err := s.Teams.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TeamService) GetTeam(ctx context.Context, userID, teamID string) (*board_model.Team, error) {
	t, err := s.Teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if _, err := requireTeam(t, userID, rbac.OpRead); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TeamService) ListTeams(ctx context.Context, userID string) ([]*board_model.Team, error) {
	return s.Teams.ListByMember(ctx, userID)
}

func (s *TeamService) UpdateTeam(ctx context.Context, userID, teamID, name, description string) (*board_model.Team, error) {
	t, err := s.Teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if _, err := requireTeam(t, userID, rbac.OpUpdate); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperror.Validation("team name is required")
	}

	if err := s.Teams.UpdateInfo(ctx, teamID, name, description); err != nil {
		return nil, err
	}
	t.Name = name
	t.Description = description
	return t, nil
}

// DeleteTeam cascades through every board, column and task owned by the team.
func (s *TeamService) DeleteTeam(ctx context.Context, userID, teamID string) error {
	t, err := s.Teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if _, err := requireTeam(t, userID, rbac.OpDelete); err != nil {
		return err
	}

	h := s.hierarchy()
	plan, err := h.teamPlan(ctx, teamID)
	if err != nil {
		return err
	}
	return h.run(ctx, plan, "team")
}

// AddMember looks the target up by email and grants role. An admin cannot
// grant a role higher than their own.
func (s *TeamService) AddMember(ctx context.Context, actorID, teamID, email, roleStr string) (*board_model.Member, error) {
	t, err := s.Teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	actorRole, err := requireTeam(t, actorID, rbac.OpManageMembers)
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
	if err := s.Teams.AddMember(ctx, teamID, m); err != nil {
		return nil, err
	}

	notify(s.Notifier, Event{Kind: EventTeamMemberAdded, To: u.Email, Title: t.Name})
	return &m, nil
}

// RemoveMember enforces the self-removal exception: anyone may leave a team
// on their own, except the owner, who must transfer ownership first.
func (s *TeamService) RemoveMember(ctx context.Context, actorID, teamID, targetID string) error {
	t, err := s.Teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if targetID == t.OwnerID {
		return apperror.Forbidden(apperror.ReasonCannotModifyOwner,
			"the owner cannot be removed; transfer ownership first")
	}
	if actorID != targetID {
		if _, err := requireTeam(t, actorID, rbac.OpManageMembers); err != nil {
			return err
		}
	}

	removed, err := s.Teams.RemoveMember(ctx, teamID, targetID)
	if err != nil {
		return err
	}
	if !removed {
		return apperror.NotFound("user is not a member of this team")
	}
	return nil
}

// ChangeRole lets an admin adjust another member's role, but never the
// owner's, and never to a role above the actor's own.
func (s *TeamService) ChangeRole(ctx context.Context, actorID, teamID, targetID, roleStr string) error {
	t, err := s.Teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	actorRole, err := requireTeam(t, actorID, rbac.OpChangeRole)
	if err != nil {
		return err
	}
	if targetID == t.OwnerID {
		return apperror.Forbidden(apperror.ReasonCannotModifyOwner,
			"the owner's role cannot be changed")
	}

	role, ok := rbac.ParseRole(roleStr)
	if !ok {
		return apperror.Validation("invalid role")
	}
	if !actorRole.AtLeast(role) {
		return apperror.Forbidden(apperror.ReasonInsufficientRole,
			"cannot grant a role higher than your own")
	}

	changed, err := s.Teams.SetMemberRole(ctx, teamID, targetID, role)
	if err != nil {
		return err
	}
	if !changed {
		return apperror.NotFound("user is not a member of this team")
	}
	return nil
}

// TransferOwnership moves the owner role to an existing member; the previous
// owner stays on the team as an admin.
func (s *TeamService) TransferOwnership(ctx context.Context, actorID, teamID, targetID string) error {
	t, err := s.Teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if _, err := requireTeam(t, actorID, rbac.OpTransferOwnership); err != nil {
		return err
	}
	if targetID == t.OwnerID {
		return apperror.Validation("user is already the owner")
	}
	if t.MemberRole(targetID) == rbac.RoleNone {
		return apperror.NotFound("user is not a member of this team")
	}

	return s.Teams.TransferOwner(ctx, teamID, t.OwnerID, targetID)
}
