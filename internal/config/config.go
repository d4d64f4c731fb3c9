package config

import (
	"encoding/json"
	"io"
	"os"

	"github.com/zeebo/errs"
)

const (
	DefaultCredentialsFile = "credentials.json"
	CredentialsEnvName     = "OUTCOME_CREDENTIALS"
)

var configErr = errs.Class("config")

type Config struct {
	AWS    AWS    `json:"aws"`
	API    API    `json:"api"`
	Toshl  Toshl  `json:"toshl"`
	Twilio Twilio `json:"twilio"`
	Mail   Mail   `json:"mail"`
}

type AWS struct {
	Region     string `json:"region"`
	UsersTable string `json:"users-table"`
	DatesTable string `json:"dates-table"`
}

type API struct {
	Token string `json:"token"`
}

type Toshl struct {
	Token string `json:"toshl-token"`
}

type Twilio struct {
	AccountSid string `json:"twilio-account-sid"`
	AuthToken  string `json:"twilio-auth-token"`
	FromNumber string `json:"twilio-from-number"`
}

type Mail struct {
	Address  string `json:"mail-addr"`
	Username string `json:"mail-username"`
	Password string `json:"mail-password"`
}

// Path returns the credentials file to read, honoring the environment
// override.
func Path() string {
	if p := os.Getenv(CredentialsEnvName); p != "" {
		return p
	}

	return DefaultCredentialsFile
}

func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, configErr.Wrap(err)
	}
	defer f.Close()

	return Decode(f)
}

func Decode(r io.Reader) (Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Config{}, configErr.Wrap(err)
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, configErr.New("could not decode credentials: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings every entry point needs.
func (c Config) Validate() error {
	if c.AWS.Region == "" {
		return configErr.New("aws region is empty")
	}

	if c.AWS.UsersTable == "" {
		return configErr.New("users table is empty")
	}

	return nil
}
