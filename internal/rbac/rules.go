package rbac

const (
	RoleCandidate = "candidate"
	RoleReviewer  = "reviewer"
	RoleAdmin     = "admin"
)

const (
	PermStart      = "interview:start"
	PermRespond    = "interview:respond"
	PermResume     = "interview:resume"
	PermViewOwn    = "interview:view-own"
	PermViewAll    = "interview:view-all"
	PermExport     = "interview:export"
	PermHistoryOwn = "history:list-own"
	PermHistoryAll = "history:list-all"
)

// Default policy. Candidates only see interviews they started.
var RolePermissions = map[string][]string{
	RoleCandidate: {
		PermStart,
		PermRespond,
		PermResume,
		PermViewOwn,
		PermHistoryOwn,
	},
	RoleReviewer: {
		"interview:view-*",
		PermExport,
		"history:*",
	},
	RoleAdmin: {
		"*", // everything
	},
}
