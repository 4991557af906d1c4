package oauth

import "time"

// TokenData is the result of a successful authorization-code exchange.
// Optional fields are nil when the provider omits them; GitHub in
// particular returns no refresh_token or expires_in for OAuth apps.
type TokenData struct {
	AccessToken  string
	RefreshToken *string
	TokenType    string // defaults to "bearer" when the provider omits it
	ExpiresIn    *int64 // seconds until expiry
	Scope        *string
}

// User is the provider profile normalized onto a fixed schema.
// Fields absent in the provider response stay nil rather than being
// filled with fabricated defaults; validation of required fields is
// left to the caller.
type User struct {
	ID         *int64     `json:"id"`
	Username   *string    `json:"username"`
	Name       *string    `json:"name"`
	Email      *string    `json:"email"`
	AvatarURL  *string    `json:"avatar_url"`
	Bio        *string    `json:"bio"`
	Location   *string    `json:"location"`
	ProfileURL *string    `json:"profile_url"`
	CreatedAt  *time.Time `json:"created_at"`
	Provider   string     `json:"provider"`
}

// Email is one entry from the provider's email list.
type Email struct {
	Email      string  `json:"email"`
	Primary    bool    `json:"primary"`
	Verified   bool    `json:"verified"`
	Visibility *string `json:"visibility"`
}
