// Package mongodbopts provides options for MongoDB client configuration.
package mongodbopts

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
)

// Options contains MongoDB client configuration.
type Options struct {
	// URI is a full MongoDB connection string. When set it takes precedence
	// over the individual host/port/credential fields.
	URI string `json:"uri" mapstructure:"uri"`

	// Host is the MongoDB host (used when URI is empty).
	Host string `json:"host" mapstructure:"host"`

	// Port is the MongoDB port.
	Port int `json:"port" mapstructure:"port"`

	// Username for authentication.
	Username string `json:"username" mapstructure:"username"`

	// Password for authentication. Prefer the MONGODB_PASSWORD env var.
	Password string `json:"-" mapstructure:"password"`

	// Database is the database name.
	Database string `json:"database" mapstructure:"database"`

	// AuthSource is the authentication database.
	AuthSource string `json:"auth-source" mapstructure:"auth-source"`

	// MaxPoolSize is the maximum connection pool size.
	MaxPoolSize uint64 `json:"max-pool-size" mapstructure:"max-pool-size"`

	// MinPoolSize is the minimum connection pool size.
	MinPoolSize uint64 `json:"min-pool-size" mapstructure:"min-pool-size"`

	// ConnectTimeout is the connection establishment timeout.
	ConnectTimeout time.Duration `json:"connect-timeout" mapstructure:"connect-timeout"`

	// SocketTimeout is the per-operation socket timeout.
	SocketTimeout time.Duration `json:"socket-timeout" mapstructure:"socket-timeout"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		Host:           "127.0.0.1",
		Port:           27017,
		Database:       "docqa",
		AuthSource:     "admin",
		MaxPoolSize:    100,
		MinPoolSize:    10,
		ConnectTimeout: 10 * time.Second,
		SocketTimeout:  30 * time.Second,
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefix string) {
	fs.StringVar(&o.URI, prefix+"uri", o.URI, "MongoDB connection URI (overrides host/port)")
	fs.StringVar(&o.Host, prefix+"host", o.Host, "MongoDB host")
	fs.IntVar(&o.Port, prefix+"port", o.Port, "MongoDB port")
	fs.StringVar(&o.Username, prefix+"username", o.Username, "MongoDB username")
	fs.StringVar(&o.Password, prefix+"password", o.Password, "MongoDB password (prefer MONGODB_PASSWORD)")
	fs.StringVar(&o.Database, prefix+"database", o.Database, "MongoDB database name")
	fs.StringVar(&o.AuthSource, prefix+"auth-source", o.AuthSource, "MongoDB authentication database")
	fs.Uint64Var(&o.MaxPoolSize, prefix+"max-pool-size", o.MaxPoolSize, "Maximum connection pool size")
	fs.Uint64Var(&o.MinPoolSize, prefix+"min-pool-size", o.MinPoolSize, "Minimum connection pool size")
	fs.DurationVar(&o.ConnectTimeout, prefix+"connect-timeout", o.ConnectTimeout, "Connection establishment timeout")
	fs.DurationVar(&o.SocketTimeout, prefix+"socket-timeout", o.SocketTimeout, "Per-operation socket timeout")
}

// Complete fills in values not set explicitly, reading sensitive fields from
// the environment.
func (o *Options) Complete() error {
	if o.Password == "" {
		o.Password = os.Getenv("MONGODB_PASSWORD")
	}
	return nil
}

// Validate validates the options.
func (o *Options) Validate() error {
	if o.URI == "" {
		if o.Host == "" {
			return fmt.Errorf("mongodb host is required")
		}
		if o.Port <= 0 || o.Port > 65535 {
			return fmt.Errorf("mongodb port must be in (0, 65535]")
		}
	}
	if o.Database == "" {
		return fmt.Errorf("mongodb database is required")
	}
	return nil
}

// String returns a representation safe for logging, with the password
// redacted.
func (o *Options) String() string {
	password := ""
	if o.Password != "" {
		password = "[REDACTED]"
	}
	return fmt.Sprintf("MongoDB{host=%s, port=%d, user=%s, password=%s, database=%s}",
		o.Host, o.Port, o.Username, password, o.Database)
}
