package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered  EventType = "user_registered"
	EventUserLoggedIn    EventType = "user_logged_in"
	EventTokensRefreshed EventType = "tokens_refreshed"
	EventSessionRevoked  EventType = "session_revoked"
	EventPasswordChanged EventType = "password_changed"
	EventOAuthLinked     EventType = "oauth_linked"
)

// Event represents a security-relevant event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string `json:"email"`
}

// UserLoggedInPayload payload.
type UserLoggedInPayload struct {
	AccessTokenID  string `json:"access_token_id"`
	RefreshTokenID string `json:"refresh_token_id"`
}

// TokensRefreshedPayload payload.
type TokensRefreshedPayload struct {
	ConsumedTokenID string `json:"consumed_token_id"`
	RefreshTokenID  string `json:"refresh_token_id"`
}

// SessionRevokedPayload payload.
type SessionRevokedPayload struct {
	RevokedTokenIDs []string `json:"revoked_token_ids"`
}

// OAuthLinkedPayload payload.
type OAuthLinkedPayload struct {
	Provider   string `json:"provider"`
	ExternalID string `json:"external_id"`
}
