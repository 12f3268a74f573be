package shared

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables holding Spotify credentials.
const (
	EnvClientID     = "SPOTIFY_CLIENT_ID"
	EnvClientSecret = "SPOTIFY_CLIENT_SECRET"
	EnvRefreshToken = "SPOTIFY_REFRESH_TOKEN"
	EnvUserID       = "SPOTIFY_USER_ID"
)

// Credentials holds the Spotify app credentials and the owning user, read once at
// startup and threaded through every component that needs them.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	UserID       string
}

// CredentialsFromEnv builds [Credentials] from the process environment.
//
// A .env file in the working directory is loaded first when present. Every variable is
// required; the first missing one aborts with [ErrMissingEnv] before any network call.
func CredentialsFromEnv() (*Credentials, error) {
	// Missing .env is fine, exported variables win anyway.
	_ = godotenv.Load()

	creds := &Credentials{}
	for _, v := range []struct {
		name   string
		target *string
	}{
		{EnvClientID, &creds.ClientID},
		{EnvClientSecret, &creds.ClientSecret},
		{EnvRefreshToken, &creds.RefreshToken},
		{EnvUserID, &creds.UserID},
	} {
		value := os.Getenv(v.name)
		if value == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingEnv, v.name)
		}
		*v.target = value
	}

	return creds, nil
}

// Map converts credentials to the map form consumed by service constructors.
func (c *Credentials) Map() map[string]string {
	return map[string]string{
		"client_id":     c.ClientID,
		"client_secret": c.ClientSecret,
		"refresh_token": c.RefreshToken,
		"user_id":       c.UserID,
	}
}
