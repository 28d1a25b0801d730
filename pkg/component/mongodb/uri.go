package mongodb

import (
	"fmt"
	"net/url"

	mongodbopts "github.com/kart-io/docqa/pkg/options/mongodb"
)

// BuildURI builds a MongoDB connection URI from the options. A fully
// specified Options.URI wins over the individual fields.
func BuildURI(opts *mongodbopts.Options) string {
	if opts.URI != "" {
		return opts.URI
	}

	var userInfo string
	if opts.Username != "" {
		userInfo = url.QueryEscape(opts.Username)
		if opts.Password != "" {
			userInfo += ":" + url.QueryEscape(opts.Password)
		}
		userInfo += "@"
	}

	uri := fmt.Sprintf("mongodb://%s%s:%d/%s", userInfo, opts.Host, opts.Port, opts.Database)
	if opts.Username != "" && opts.AuthSource != "" {
		uri += "?authSource=" + url.QueryEscape(opts.AuthSource)
	}
	return uri
}
