package constants

// Context and session keys
const (
	ContextKeyUserID       = "user_id"
	SessionCookieName      = "todo_session"
	SessionKeyUserID       = "user_id"
	SessionKeyRefreshToken = "refresh_token"
)

// Validation limits
const (
	MinPasswordLength = 8
	// bcrypt ignores anything past 72 bytes
	MaxPasswordLength = 72
	MaxTitleLength    = 200
	MaxNameLength     = 50
	MaxUsernameLength = 64
)

// Todo generation limits
const (
	MaxGeneratedTodos     = 20
	MaxGenerateTextLength = 4000
)
