package constants

// Session / context keys
const (
	SessionCookieName = "collab_session"
	ContextKeyUserID  = "user_id"
	ContextKeyProject = "project"
	ContextKeyMember  = "project_member"
	ContextKeyTask    = "task"
)

// Auth
const (
	MinPasswordLength = 8
	SessionMaxAge     = 86400 * 7 // 7 days
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// GeneralThreadTitle is the canonical per-project discussion thread.
// Every project has exactly one thread with this title.
const GeneralThreadTitle = "General"

// UnassignedSentinel clears a task's assignee when sent in a task patch.
const UnassignedSentinel = 0

// MaxAISuggestedTasks caps how many tasks a single AI suggestion may yield.
const MaxAISuggestedTasks = 20
