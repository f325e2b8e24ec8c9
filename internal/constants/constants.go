package constants

const (
	// Session
	SessionCookieName    = "task_session"
	ContextKeyUserID     = "user_id"
	ContextKeyActor      = "actor"
	SessionKeyRememberMe = "remember_me"
	RememberMeMaxAge     = 1209600 // two weeks
	DefaultSessionMaxAge = 86400 * 7
	BrowserSessionMaxAge = 0
	LoginURL             = "/accounts/login/"
	WelcomeURL           = "/welcome/"

	// Pagination
	MinPageSize      = 1
	PositionPageSize = 5
	TaskTypePageSize = 5
	TaskPageSize     = 5
	WorkerPageSize   = 8
	CommentPageSize  = 5

	// Accounts
	MinPasswordLength = 8
	MaxUsernameLength = 150
	MaxNameLength     = 255

	// Avatars
	AvatarThumbnailSize = 512
	MaxAvatarBytes      = 5 << 20
)
