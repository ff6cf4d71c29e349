package rbac

// Default policy. Admins get everything; viewers can read plans but not
// create them or change topics.
var RolePermissions = map[string][]string{
	"viewer": {
		"plan:view",
		"plan:export",
		"topics:view",
	},
	"teacher": {
		"plan:*",
		"runs:view",
		"topics:view",
	},
	"admin": {
		"*", // everything
	},
}
