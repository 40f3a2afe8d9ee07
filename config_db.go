package toyland

import (
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DBSettings configures the connection to the document store.
type DBSettings struct {
	// Url is the connection string. Credentials are kept out of it and
	// supplied through User and Password instead.
	Url                string `yaml:"url" json:"url"`
	DB                 string `yaml:"db" json:"db"`
	User               string `yaml:"user" json:"user"`
	Password           string `yaml:"password" json:"-"`
	AuthSource         string `yaml:"auth_source" json:"auth_source"`
	ConnectTimeoutSecs int    `yaml:"connect_timeout_secs" json:"connect_timeout_secs"`
}

// ValidateAndDefault fills in defaults for unset values and rejects
// settings that cannot produce a connection.
func (s *DBSettings) ValidateAndDefault() error {
	if s.Url == "" {
		s.Url = DefaultDatabaseURL
	}
	if s.DB == "" {
		s.DB = DefaultDatabaseName
	}
	if s.ConnectTimeoutSecs == 0 {
		s.ConnectTimeoutSecs = DefaultConnectTimeoutSecs
	}
	if s.ConnectTimeoutSecs < 0 {
		return errors.Errorf("connect timeout must not be negative, got %d", s.ConnectTimeoutSecs)
	}
	if s.Password != "" && s.User == "" {
		return errors.New("database password given without a user")
	}

	return nil
}

// ConnectTimeout returns the bound on the initial connection attempt.
func (s *DBSettings) ConnectTimeout() time.Duration {
	return time.Duration(s.ConnectTimeoutSecs) * time.Second
}

// ClientOptions builds the driver options for this configuration.
func (s *DBSettings) ClientOptions() *options.ClientOptions {
	opts := options.Client().
		ApplyURI(s.Url).
		SetConnectTimeout(s.ConnectTimeout()).
		SetServerSelectionTimeout(s.ConnectTimeout()).
		SetReadPreference(readpref.Primary()).
		SetRetryWrites(true)

	if s.User != "" {
		opts.SetAuth(options.Credential{
			Username:   s.User,
			Password:   s.Password,
			AuthSource: s.AuthSource,
		})
	}

	return opts
}
