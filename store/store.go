// Package store provides the contact repository backends.
// The Repository interface is defined in the parent contactbook package
// (../store_interface.go) so callers never import a concrete backend.
//
// This package contains concrete implementations:
//   - MemoryStore: ordered in-process B-tree keyed by name
//   - DynamoDBStore: external hash store, one item per contact
//
// Key layout for the external store is defined in schema.go. Bulk file
// encoding shared by both backends lives in bulk.go.
package store

import "github.com/rs/zerolog"

// Option configures a store
type Option func(*options)

type options struct {
	logger zerolog.Logger
}

// WithLogger sets the logger used for store events
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func applyOptions(backend string, opts []Option) options {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.With().Str("backend", backend).Logger()
	return o
}
