package board_services

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"

	"github.com/Goldexcool/TaskTrekBackend/internal/apperror"
	"github.com/Goldexcool/TaskTrekBackend/internal/model/auth_model"
	"github.com/Goldexcool/TaskTrekBackend/internal/model/board_model"
	"github.com/Goldexcool/TaskTrekBackend/internal/rbac"
)

// In-memory stores mirroring the mongo repositories' observable behavior:
// not-found errors, conflict on duplicate members, deletes reporting whether
// a document existed. failDelete lets a test break a cascade at a chosen id.

type memTeams struct {
	byID       map[string]*board_model.Team
	failDelete map[string]error
}

func newMemTeams() *memTeams {
	return &memTeams{byID: map[string]*board_model.Team{}, failDelete: map[string]error{}}
}

func copyTeam(t *board_model.Team) *board_model.Team {
	out := *t
	out.Members = append([]board_model.Member(nil), t.Members...)
	return &out
}

func (s *memTeams) Create(_ context.Context, t *board_model.Team) error {
	for _, existing := range s.byID {
		if existing.OwnerID == t.OwnerID && existing.Name == t.Name {
			return apperror.Conflict("a team with this name already exists")
		}
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.byID[t.ID] = copyTeam(t)
	return nil
}

func (s *memTeams) GetByID(_ context.Context, teamID string) (*board_model.Team, error) {
	t, ok := s.byID[teamID]
	if !ok {
		return nil, apperror.NotFound("team not found")
	}
	return copyTeam(t), nil
}

func (s *memTeams) ListByMember(_ context.Context, userID string) ([]*board_model.Team, error) {
	var out []*board_model.Team
	for _, t := range s.byID {
		if t.MemberRole(userID) != rbac.RoleNone {
			out = append(out, copyTeam(t))
		}
	}
	return out, nil
}

func (s *memTeams) UpdateInfo(_ context.Context, teamID, name, description string) error {
	t, ok := s.byID[teamID]
	if !ok {
		return apperror.NotFound("team not found")
	}
	t.Name = name
	t.Description = description
	return nil
}

func (s *memTeams) Delete(_ context.Context, teamID string) (bool, error) {
	if err := s.failDelete[teamID]; err != nil {
		return false, err
	}
	_, ok := s.byID[teamID]
	delete(s.byID, teamID)
	return ok, nil
}

func (s *memTeams) AddMember(_ context.Context, teamID string, m board_model.Member) error {
	t, ok := s.byID[teamID]
	if !ok {
		return apperror.NotFound("team not found")
	}
	for _, existing := range t.Members {
		if existing.UserID == m.UserID {
			return apperror.Conflict("user is already a member of this team")
		}
	}
	t.Members = append(t.Members, m)
	return nil
}

func (s *memTeams) RemoveMember(_ context.Context, teamID, userID string) (bool, error) {
	t, ok := s.byID[teamID]
	if !ok {
		return false, apperror.NotFound("team not found")
	}
	for i, m := range t.Members {
		if m.UserID == userID {
			t.Members = append(t.Members[:i], t.Members[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *memTeams) SetMemberRole(_ context.Context, teamID, userID string, role rbac.Role) (bool, error) {
	t, ok := s.byID[teamID]
	if !ok {
		return false, apperror.NotFound("team not found")
	}
	for i := range t.Members {
		if t.Members[i].UserID == userID {
			t.Members[i].Role = role
			return true, nil
		}
	}
	return false, nil
}

func (s *memTeams) TransferOwner(_ context.Context, teamID, oldOwnerID, newOwnerID string) error {
	t, ok := s.byID[teamID]
	if !ok || t.OwnerID != oldOwnerID {
		return apperror.Conflict("team ownership changed concurrently")
	}
	t.OwnerID = newOwnerID
	for i := range t.Members {
		switch t.Members[i].UserID {
		case newOwnerID:
			t.Members[i].Role = rbac.RoleOwner
		case oldOwnerID:
			t.Members[i].Role = rbac.RoleAdmin
		}
	}
	return nil
}

type memBoards struct {
	byID       map[string]*board_model.Board
	failDelete map[string]error
}

func newMemBoards() *memBoards {
	return &memBoards{byID: map[string]*board_model.Board{}, failDelete: map[string]error{}}
}

func copyBoard(b *board_model.Board) *board_model.Board {
	out := *b
	out.Members = append([]board_model.Member(nil), b.Members...)
	return &out
}

func (s *memBoards) Create(_ context.Context, b *board_model.Board) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	s.byID[b.ID] = copyBoard(b)
	return nil
}

func (s *memBoards) GetByID(_ context.Context, boardID string) (*board_model.Board, error) {
	b, ok := s.byID[boardID]
	if !ok {
		return nil, apperror.NotFound("board not found")
	}
	return copyBoard(b), nil
}

func (s *memBoards) ListByTeam(_ context.Context, teamID string) ([]*board_model.Board, error) {
	var out []*board_model.Board
	for _, b := range s.byID {
		if b.TeamID == teamID {
			out = append(out, copyBoard(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memBoards) UpdateInfo(_ context.Context, boardID, title, description string) error {
	b, ok := s.byID[boardID]
	if !ok {
		return apperror.NotFound("board not found")
	}
	b.Title = title
	b.Description = description
	return nil
}

func (s *memBoards) Delete(_ context.Context, boardID string) (bool, error) {
	if err := s.failDelete[boardID]; err != nil {
		return false, err
	}
	_, ok := s.byID[boardID]
	delete(s.byID, boardID)
	return ok, nil
}

func (s *memBoards) AddMember(_ context.Context, boardID string, m board_model.Member) error {
	b, ok := s.byID[boardID]
	if !ok {
		return apperror.NotFound("board not found")
	}
	for _, existing := range b.Members {
		if existing.UserID == m.UserID {
			return apperror.Conflict("user is already a member of this board")
		}
	}
	b.Members = append(b.Members, m)
	return nil
}

func (s *memBoards) RemoveMember(_ context.Context, boardID, userID string) (bool, error) {
	b, ok := s.byID[boardID]
	if !ok {
		return false, apperror.NotFound("board not found")
	}
	for i, m := range b.Members {
		if m.UserID == userID {
			b.Members = append(b.Members[:i], b.Members[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type memColumns struct {
	byID       map[string]*board_model.Column
	failDelete map[string]error
}

func newMemColumns() *memColumns {
	return &memColumns{byID: map[string]*board_model.Column{}, failDelete: map[string]error{}}
}

func (s *memColumns) Create(_ context.Context, c *board_model.Column) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	stored := *c
	s.byID[c.ID] = &stored
	return nil
}

func (s *memColumns) GetByID(_ context.Context, columnID string) (*board_model.Column, error) {
	c, ok := s.byID[columnID]
	if !ok {
		return nil, apperror.NotFound("column not found")
	}
	out := *c
	return &out, nil
}

func (s *memColumns) ListByBoard(_ context.Context, boardID string) ([]*board_model.Column, error) {
	var out []*board_model.Column
	for _, c := range s.byID {
		if c.BoardID == boardID {
			copied := *c
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memColumns) Rename(_ context.Context, columnID, title string) error {
	c, ok := s.byID[columnID]
	if !ok {
		return apperror.NotFound("column not found")
	}
	c.Title = title
	return nil
}

func (s *memColumns) SetPosition(_ context.Context, columnID string, position int) error {
	c, ok := s.byID[columnID]
	if !ok {
		return apperror.NotFound("column not found")
	}
	c.Position = position
	return nil
}

func (s *memColumns) Delete(_ context.Context, columnID string) (bool, error) {
	if err := s.failDelete[columnID]; err != nil {
		return false, err
	}
	_, ok := s.byID[columnID]
	delete(s.byID, columnID)
	return ok, nil
}

func (s *memColumns) MaxPosition(_ context.Context, boardID string) (int, error) {
	max := 0
	for _, c := range s.byID {
		if c.BoardID == boardID && c.Position > max {
			max = c.Position
		}
	}
	return max, nil
}

type memTasks struct {
	byID       map[string]*board_model.Task
	failDelete map[string]error
}

func newMemTasks() *memTasks {
	return &memTasks{byID: map[string]*board_model.Task{}, failDelete: map[string]error{}}
}

func (s *memTasks) Create(_ context.Context, t *board_model.Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	stored := *t
	s.byID[t.ID] = &stored
	return nil
}

func (s *memTasks) GetByID(_ context.Context, taskID string) (*board_model.Task, error) {
	t, ok := s.byID[taskID]
	if !ok {
		return nil, apperror.NotFound("task not found")
	}
	out := *t
	return &out, nil
}

func (s *memTasks) ListByColumn(_ context.Context, columnID string) ([]*board_model.Task, error) {
	var out []*board_model.Task
	for _, t := range s.byID {
		if t.ColumnID == columnID {
			copied := *t
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memTasks) UpdateInfo(_ context.Context, taskID, title, description string, priority board_model.Priority) error {
	t, ok := s.byID[taskID]
	if !ok {
		return apperror.NotFound("task not found")
	}
	t.Title = title
	t.Description = description
	t.Priority = priority
	return nil
}

func (s *memTasks) SetCompleted(_ context.Context, taskID string, completed bool) error {
	t, ok := s.byID[taskID]
	if !ok {
		return apperror.NotFound("task not found")
	}
	t.Completed = completed
	return nil
}

func (s *memTasks) SetAssignee(_ context.Context, taskID, assigneeID string) error {
	t, ok := s.byID[taskID]
	if !ok {
		return apperror.NotFound("task not found")
	}
	t.AssigneeID = assigneeID
	return nil
}

func (s *memTasks) Delete(_ context.Context, taskID string) (bool, error) {
	if err := s.failDelete[taskID]; err != nil {
		return false, err
	}
	_, ok := s.byID[taskID]
	delete(s.byID, taskID)
	return ok, nil
}

func (s *memTasks) MaxPosition(_ context.Context, columnID string) (int, error) {
	max := 0
	for _, t := range s.byID {
		if t.ColumnID == columnID && t.Position > max {
			max = t.Position
		}
	}
	return max, nil
}

func (s *memTasks) ShiftRight(_ context.Context, columnID string, position int, excludeID string) error {
	for _, t := range s.byID {
		if t.ColumnID == columnID && t.ID != excludeID && t.Position >= position {
			t.Position++
		}
	}
	return nil
}

func (s *memTasks) Move(_ context.Context, taskID, columnID string, position int) error {
	t, ok := s.byID[taskID]
	if !ok {
		return apperror.NotFound("task not found")
	}
	t.ColumnID = columnID
	t.Position = position
	return nil
}

type memUsers struct {
	byID map[string]*auth_model.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*auth_model.User{}}
}

func (s *memUsers) add(id, email string) *auth_model.User {
	u := &auth_model.User{ID: id, Email: email}
	s.byID[id] = u
	return u
}

func (s *memUsers) GetByEmail(_ context.Context, email string) (*auth_model.User, error) {
	for _, u := range s.byID {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, apperror.NotFound("user not found")
}

func (s *memUsers) GetByID(_ context.Context, id string) (*auth_model.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	out := *u
	return &out, nil
}

type recordingNotifier struct {
	events []Event
}

func (n *recordingNotifier) Notify(e Event) {
	n.events = append(n.events, e)
}

// fixture wires all four services over shared in-memory stores with a team
// holding one user per role plus an outsider with no membership at all.
type fixture struct {
	teams   *memTeams
	boards  *memBoards
	columns *memColumns
	tasks   *memTasks
	users   *memUsers
	mail    *recordingNotifier

	teamSvc   *TeamService
	boardSvc  *BoardService
	columnSvc *ColumnService
	taskSvc   *TaskService

	teamID string
}

const (
	ownerID    = "u-owner"
	adminID    = "u-admin"
	memberID   = "u-member"
	viewerID   = "u-viewer"
	outsiderID = "u-outsider"
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		teams:   newMemTeams(),
		boards:  newMemBoards(),
		columns: newMemColumns(),
		tasks:   newMemTasks(),
		users:   newMemUsers(),
		mail:    &recordingNotifier{},
	}
	f.teamSvc = NewTeamService(f.teams, f.boards, f.columns, f.tasks, f.users, f.mail)
	f.boardSvc = NewBoardService(f.boards, f.teams, f.columns, f.tasks, f.users, f.mail)
	f.columnSvc = NewColumnService(f.columns, f.boards, f.teams, f.tasks)
	f.taskSvc = NewTaskService(f.tasks, f.columns, f.boards, f.teams, f.users, f.mail)

	f.users.add(ownerID, "owner@example.com")
	f.users.add(adminID, "admin@example.com")
	f.users.add(memberID, "member@example.com")
	f.users.add(viewerID, "viewer@example.com")
	f.users.add(outsiderID, "outsider@example.com")

	team, err := f.teamSvc.CreateTeam(context.Background(), ownerID, "Platform", "infra crew")
	if err != nil {
		t.Fatalf("seeding team: %v", err)
	}
	f.teamID = team.ID

	for _, m := range []board_model.Member{
		{UserID: adminID, Role: rbac.RoleAdmin},
		{UserID: memberID, Role: rbac.RoleMember},
		{UserID: viewerID, Role: rbac.RoleViewer},
	} {
		if err := f.teams.AddMember(context.Background(), f.teamID, m); err != nil {
			t.Fatalf("seeding member %s: %v", m.UserID, err)
		}
	}
	return f
}

// seedBoard creates a board as the team owner and returns it with its three
// seeded default columns, ordered by position.
func (f *fixture) seedBoard(t *testing.T) (*board_model.Board, []*board_model.Column) {
	t.Helper()
	b, err := f.boardSvc.CreateBoard(context.Background(), ownerID, f.teamID, "Sprint 12", "")
	if err != nil {
		t.Fatalf("seeding board: %v", err)
	}
	cols, err := f.columns.ListByBoard(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("listing seeded columns: %v", err)
	}
	return b, cols
}
