// Package directory dumps users from the Microsoft Graph directory into the
// CSV table the chart is built from, keeping hand-curated ids and manager
// links of people already in the previous table.
package directory

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Credentials authenticate the app registration used for the dump.
type Credentials struct {
	TenantID     string `env:"TENANT_ID,required"`
	ClientID     string `env:"CLIENT_ID,required"`
	ClientSecret string `env:"CLIENT_SECRET,required"`
	// GraphURL overrides the API root, for sovereign clouds and tests.
	GraphURL string `env:"GRAPH_URL" envDefault:"https://graph.microsoft.com/v1.0"`
	// AuthorityURL overrides the token host.
	AuthorityURL string `env:"AUTHORITY_URL" envDefault:"https://login.microsoftonline.com"`
}

// TokenURL is the client-credentials endpoint for the tenant.
func (c Credentials) TokenURL() string {
	return fmt.Sprintf("%s/%s/oauth2/v2.0/token", c.AuthorityURL, c.TenantID)
}

// LoadEnv loads the given dotenv files that exist, returning how many were
// read. Variables already set in the process win.
func LoadEnv(files ...string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// LoadCredentials reads credentials from the environment after loading
// .env and .env.local when present.
func LoadCredentials(files ...string) (Credentials, error) {
	if len(files) == 0 {
		files = []string{".env", ".env.local"}
	}
	if _, err := LoadEnv(files...); err != nil {
		return Credentials{}, fmt.Errorf("loading env files: %w", err)
	}
	var c Credentials
	if err := env.Parse(&c); err != nil {
		return Credentials{}, fmt.Errorf("directory credentials: %w", err)
	}
	return c, nil
}
