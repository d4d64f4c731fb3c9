package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sample = `{
	"aws": {"region": "us-east-1", "users-table": "toshl-users", "dates-table": "toshl-data"},
	"api": {"token": "secret"},
	"toshl": {"toshl-token": "toshl"},
	"twilio": {"twilio-account-sid": "AC1", "twilio-auth-token": "tok", "twilio-from-number": "+100"},
	"mail": {"mail-addr": "imap.example.com:993", "mail-username": "me", "mail-password": "pw"}
}`

func Test_DecodeReadsAllSections(t *testing.T) {
	cfg, err := Decode(strings.NewReader(sample))
	assert.NoError(t, err)

	assert.Equal(t, "us-east-1", cfg.AWS.Region)
	assert.Equal(t, "toshl-users", cfg.AWS.UsersTable)
	assert.Equal(t, "toshl-data", cfg.AWS.DatesTable)
	assert.Equal(t, "secret", cfg.API.Token)
	assert.Equal(t, "toshl", cfg.Toshl.Token)
	assert.Equal(t, "+100", cfg.Twilio.FromNumber)
	assert.Equal(t, "me", cfg.Mail.Username)
	assert.NoError(t, cfg.Validate())
}

func Test_DecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode(strings.NewReader("{"))
	assert.Error(t, err)
	assert.True(t, configErr.Has(err))
}

func Test_ValidateRequiresAWSSettings(t *testing.T) {
	assert.Error(t, Config{}.Validate())
	assert.Error(t, Config{AWS: AWS{Region: "us-east-1"}}.Validate())
}

func Test_LoadReadsFileFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	assert.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "secret", cfg.API.Token)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func Test_PathHonorsEnvironment(t *testing.T) {
	t.Setenv(CredentialsEnvName, "")
	assert.Equal(t, DefaultCredentialsFile, Path())

	t.Setenv(CredentialsEnvName, "/etc/outcome.json")
	assert.Equal(t, "/etc/outcome.json", Path())
}
