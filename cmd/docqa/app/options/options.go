// Package options contains flags and options for initializing the document
// QA server.
package options

import (
	"time"

	"github.com/spf13/pflag"

	docqa "github.com/kart-io/docqa/internal/docqa"
	docqaopts "github.com/kart-io/docqa/pkg/options/docqa"
	httpopts "github.com/kart-io/docqa/pkg/options/http"
	logopts "github.com/kart-io/docqa/pkg/options/logger"
	milvusopts "github.com/kart-io/docqa/pkg/options/milvus"
	mongodbopts "github.com/kart-io/docqa/pkg/options/mongodb"
	ollamaopts "github.com/kart-io/docqa/pkg/options/ollama"
)

// ServerOptions contains the configuration options for the server.
type ServerOptions struct {
	// HTTPOptions contains HTTP server configuration.
	HTTPOptions *httpopts.Options `json:"http" mapstructure:"http"`

	// LogOptions contains logger configuration.
	LogOptions *logopts.Options `json:"log" mapstructure:"log"`

	// MilvusOptions contains Milvus vector database configuration.
	MilvusOptions *milvusopts.Options `json:"milvus" mapstructure:"milvus"`

	// MongoOptions contains MongoDB configuration.
	MongoOptions *mongodbopts.Options `json:"mongodb" mapstructure:"mongodb"`

	// OllamaOptions contains Ollama provider configuration.
	OllamaOptions *ollamaopts.Options `json:"ollama" mapstructure:"ollama"`

	// DocQAOptions contains retrieval pipeline configuration.
	DocQAOptions *docqaopts.Options `json:"docqa" mapstructure:"docqa"`

	// ShutdownTimeout is the timeout for graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`
}

// NewServerOptions creates a ServerOptions instance with default values.
func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		HTTPOptions:     httpopts.NewOptions(),
		LogOptions:      logopts.NewOptions(),
		MilvusOptions:   milvusopts.NewOptions(),
		MongoOptions:    mongodbopts.NewOptions(),
		OllamaOptions:   ollamaopts.NewOptions(),
		DocQAOptions:    docqaopts.NewOptions(),
		ShutdownTimeout: 30 * time.Second,
	}
}

// AddFlags adds all server flags to the flagset.
func (o *ServerOptions) AddFlags(fs *pflag.FlagSet) {
	o.HTTPOptions.AddFlags(fs)
	o.LogOptions.AddFlags(fs)
	o.MilvusOptions.AddFlags(fs, "milvus.")
	o.MongoOptions.AddFlags(fs, "mongodb.")
	o.OllamaOptions.AddFlags(fs, "ollama.")
	o.DocQAOptions.AddFlags(fs)
	fs.DurationVar(&o.ShutdownTimeout, "shutdown-timeout", o.ShutdownTimeout, "Graceful shutdown timeout")
}

// Complete completes all the required options.
func (o *ServerOptions) Complete() error {
	return o.MongoOptions.Complete()
}

// Validate validates all options.
func (o *ServerOptions) Validate() error {
	if err := o.HTTPOptions.Validate(); err != nil {
		return err
	}
	if err := o.LogOptions.Validate(); err != nil {
		return err
	}
	if err := o.MilvusOptions.Validate(); err != nil {
		return err
	}
	if err := o.MongoOptions.Validate(); err != nil {
		return err
	}
	if err := o.OllamaOptions.Validate(); err != nil {
		return err
	}
	return o.DocQAOptions.Validate()
}

// Config builds the server configuration from the options.
func (o *ServerOptions) Config() (*docqa.Config, error) {
	return &docqa.Config{
		HTTPOptions:     o.HTTPOptions,
		LogOptions:      o.LogOptions,
		MilvusOptions:   o.MilvusOptions,
		MongoOptions:    o.MongoOptions,
		OllamaOptions:   o.OllamaOptions,
		DocQAOptions:    o.DocQAOptions,
		ShutdownTimeout: o.ShutdownTimeout,
	}, nil
}
