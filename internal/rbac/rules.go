package rbac

const (
	RoleLearner = "learner"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

const (
	PermPractice     = "practice:submit"
	PermProgressView = "progress:view"
	PermHistoryView  = "history:view"
)

// RolePermissions is the built-in policy. Learners practise and see their
// topic progress; teachers additionally read the learning history.
var RolePermissions = map[string][]string{
	RoleLearner: {
		PermPractice,
		PermProgressView,
	},
	RoleTeacher: {
		"practice:*",
		"progress:*",
		PermHistoryView,
	},
	RoleAdmin: {
		"*",
	},
}
