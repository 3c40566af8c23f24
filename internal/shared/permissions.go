package shared

// Platform permission tags. The set is closed and versioned with the
// deployment; adding one means redeploying the permission catalog.
const (
	PermReportsSubmit = "reports:submit"
	PermReportsReview = "reports:review"

	PermCasesHandle = "cases:handle"
	PermCasesView   = "cases:view"

	PermLibraryManage = "library:manage"
	PermLibraryView   = "library:view"

	PermUsersView   = "users:view"
	PermUsersManage = "users:manage"

	PermOrgsView   = "orgs:view"
	PermOrgsManage = "orgs:manage"
)
