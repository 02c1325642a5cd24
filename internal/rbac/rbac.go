package rbac

// Role is a permission level held by a user on a team or a board.
type Role string

// Op is the kind of mutation (or read) being authorized.
type Op string

const (
	RoleNone   Role = ""
	RoleViewer Role = "viewer"
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
)

const (
	OpRead              Op = "read"
	OpCreateChild       Op = "create_child"
	OpUpdate            Op = "update"
	OpDelete            Op = "delete"
	OpManageMembers     Op = "manage_members"
	OpChangeRole        Op = "change_role"
	OpTransferOwnership Op = "transfer_ownership"
)

var rank = map[Role]int{
	RoleNone:   0,
	RoleViewer: 1,
	RoleMember: 2,
	RoleAdmin:  3,
	RoleOwner:  4,
}

var minRole = map[Op]Role{
	OpRead:              RoleViewer,
	OpCreateChild:       RoleMember,
	OpUpdate:            RoleMember,
	OpDelete:            RoleAdmin,
	OpManageMembers:     RoleAdmin,
	OpChangeRole:        RoleAdmin,
	OpTransferOwnership: RoleOwner,
}

// MinRole returns the weakest role allowed to perform op.
func MinRole(op Op) Role {
	return minRole[op]
}

// AtLeast reports whether r grants everything min grants.
func (r Role) AtLeast(min Role) bool {
	return rank[r] >= rank[min]
}

// Can reports whether role is allowed to perform op. The extra rules around
// change_role (no elevation above one's own role, owner is untouchable) and
// membership self-removal are enforced by the services; this is the base table.
func Can(role Role, op Op) bool {
	min, ok := minRole[op]
	if !ok {
		return false
	}
	return role.AtLeast(min)
}

// ParseRole validates a role string coming from a request payload.
// RoleOwner is intentionally not assignable this way; ownership moves only
// through an explicit transfer.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleViewer, RoleMember, RoleAdmin:
		return Role(s), true
	default:
		return RoleNone, false
	}
}
