// Package permissions is the single source of truth for the permission
// vocabulary and the default role permission sets used by the bootstrap
// seeder and the resolution fallback.
package permissions

// Permission tokens, interpreted as resource:action
const (
	MembersRead   = "members:read"
	MembersCreate = "members:create"
	MembersUpdate = "members:update"
	MembersDelete = "members:delete"

	RolesRead   = "roles:read"
	RolesCreate = "roles:create"
	RolesUpdate = "roles:update"
	RolesDelete = "roles:delete"

	AnalyticsRead = "analytics:read"

	SettingsRead   = "settings:read"
	SettingsUpdate = "settings:update"

	UsersRead   = "users:read"
	UsersCreate = "users:create"
	UsersUpdate = "users:update"
	UsersDelete = "users:delete"

	CommunityRead   = "community:read"
	CommunityCreate = "community:create"
	CommunityUpdate = "community:update"
	CommunityDelete = "community:delete"

	EventsRead   = "events:read"
	EventsCreate = "events:create"
	EventsUpdate = "events:update"
	EventsDelete = "events:delete"

	DocumentsRead   = "documents:read"
	DocumentsCreate = "documents:create"
	DocumentsUpdate = "documents:update"
	DocumentsDelete = "documents:delete"

	NotificationsRead   = "notifications:read"
	NotificationsCreate = "notifications:create"
	NotificationsUpdate = "notifications:update"
	NotificationsDelete = "notifications:delete"
)

// Built-in role names
const (
	RoleSuperAdmin = "Super Admin"
	RoleAdmin      = "Admin"
	RoleModerator  = "Moderator"
	RoleMember     = "Member"
	RoleGuest      = "Guest"
)

// all holds every valid permission token
var all = []string{
	MembersRead, MembersCreate, MembersUpdate, MembersDelete,
	RolesRead, RolesCreate, RolesUpdate, RolesDelete,
	AnalyticsRead,
	SettingsRead, SettingsUpdate,
	UsersRead, UsersCreate, UsersUpdate, UsersDelete,
	CommunityRead, CommunityCreate, CommunityUpdate, CommunityDelete,
	EventsRead, EventsCreate, EventsUpdate, EventsDelete,
	DocumentsRead, DocumentsCreate, DocumentsUpdate, DocumentsDelete,
	NotificationsRead, NotificationsCreate, NotificationsUpdate, NotificationsDelete,
}

var valid = func() map[string]struct{} {
	m := make(map[string]struct{}, len(all))
	for _, p := range all {
		m[p] = struct{}{}
	}
	return m
}()

// All returns the full permission vocabulary
func All() []string {
	out := make([]string, len(all))
	copy(out, all)
	return out
}

// IsValid reports whether p belongs to the vocabulary
func IsValid(p string) bool {
	_, ok := valid[p]
	return ok
}

// Validate returns the subset of perms that are not in the vocabulary
func Validate(perms []string) []string {
	var invalid []string
	for _, p := range perms {
		if !IsValid(p) {
			invalid = append(invalid, p)
		}
	}
	return invalid
}

// defaultSets maps the five built-in role names to their permission sets
var defaultSets = map[string][]string{
	RoleSuperAdmin: All(),
	RoleAdmin: {
		MembersRead, MembersCreate, MembersUpdate,
		RolesRead,
		AnalyticsRead,
		SettingsRead,
		UsersRead, UsersCreate, UsersUpdate,
		CommunityRead, CommunityCreate, CommunityUpdate,
		EventsRead, EventsCreate, EventsUpdate,
		DocumentsRead, DocumentsCreate, DocumentsUpdate,
		NotificationsRead, NotificationsCreate, NotificationsUpdate,
	},
	RoleModerator: {
		MembersRead, MembersUpdate,
		AnalyticsRead,
		CommunityRead, CommunityUpdate,
		EventsRead, EventsCreate, EventsUpdate,
		DocumentsRead, DocumentsCreate,
		NotificationsRead, NotificationsCreate,
	},
	RoleMember: {
		MembersRead,
		CommunityRead,
		EventsRead,
		DocumentsRead,
		NotificationsRead,
	},
	RoleGuest: {
		CommunityRead,
		EventsRead,
	},
}

// DefaultFor returns the default permission set for a role name.
// Unknown role names resolve to the lowest-privilege Guest set.
func DefaultFor(role string) []string {
	set, ok := defaultSets[role]
	if !ok {
		set = defaultSets[RoleGuest]
	}
	out := make([]string, len(set))
	copy(out, set)
	return out
}

// BuiltinRoles returns the five built-in role names in seeding order
func BuiltinRoles() []string {
	return []string{RoleSuperAdmin, RoleAdmin, RoleModerator, RoleMember, RoleGuest}
}

// IsBuiltinRole reports whether name is one of the five built-in roles
func IsBuiltinRole(name string) bool {
	_, ok := defaultSets[name]
	return ok
}
