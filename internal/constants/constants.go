package constants

// Credit policy. Balances are stored in minutes.
const (
	// StartingBalanceMinutes is granted when a user's credit record is first created.
	StartingBalanceMinutes = 240

	// CompletionRewardMinutes is credited when a taken task is completed.
	// Flat amount, not proportional to the task's duration.
	CompletionRewardMinutes = 60

	// MinutesPerHour converts a task's duration (hours) into its price (minutes).
	MinutesPerHour = 60
)

// Task field bounds, enforced by the service layer.
const (
	MaxTitleLength       = 50
	MaxDescriptionLength = 200
)

// Session and context keys.
const (
	SessionCookieName = "timebank_session"

	SessionKeyUserID      = "user_id"
	SessionKeyDisplayName = "display_name"
	SessionKeyEmail       = "email"

	ContextKeyIdentity = "identity"
)
