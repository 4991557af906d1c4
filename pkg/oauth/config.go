package oauth

import githubOAuth "golang.org/x/oauth2/github"

// Config holds GitHub OAuth configuration.
//
// AuthorizeURL, TokenURL and UserAPIURL default to GitHub's public
// endpoints and only need to be set when talking to a GitHub Enterprise
// instance or a test server.
type Config struct {
	ClientID     string `env:"GITHUB_OAUTH_CLIENT_ID,required"`
	ClientSecret string `env:"GITHUB_OAUTH_CLIENT_SECRET,required"`
	RedirectURL  string `env:"GITHUB_OAUTH_REDIRECT_URL" envDefault:""`
	AuthorizeURL string `env:"GITHUB_OAUTH_AUTHORIZE_URL" envDefault:""`
	TokenURL     string `env:"GITHUB_OAUTH_TOKEN_URL" envDefault:""`
	UserAPIURL   string `env:"GITHUB_OAUTH_USER_API_URL" envDefault:"https://api.github.com/user"`
}

// withDefaults fills unset endpoint URLs with GitHub's public endpoints.
func (c Config) withDefaults() Config {
	if c.AuthorizeURL == "" {
		c.AuthorizeURL = githubOAuth.Endpoint.AuthURL
	}
	if c.TokenURL == "" {
		c.TokenURL = githubOAuth.Endpoint.TokenURL
	}
	if c.UserAPIURL == "" {
		c.UserAPIURL = defaultUserAPIURL
	}
	return c
}
