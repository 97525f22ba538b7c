package usecase

// TokenManager issues and verifies bearer tokens.
type TokenManager interface {
	Generate(userID string) (string, error)
	Verify(token string) (string, error)
}

// Notifier pushes realtime events to a connected user. Implementations must
// not block; delivery is best effort.
type Notifier interface {
	NotifyNewMessage(userID string, payload interface{})
}
