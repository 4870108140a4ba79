package pgviews

import (
	"github.com/go-nacelle/log/v2"
	"github.com/go-nacelle/nacelle/v2"
)

type (
	options struct {
		quoter           IdentifierQuoter
		logger           nacelle.Logger
		concurrency      int
		defaultNamespace string
	}

	// ConfigFunc is a function used to configure a view reader.
	ConfigFunc func(*options)
)

// WithIdentifierQuoter sets the quoter applied to names that are not bare identifiers.
func WithIdentifierQuoter(quoter IdentifierQuoter) ConfigFunc {
	return func(o *options) { o.quoter = quoter }
}

// WithLogger sets the logger that receives per-view debug output.
func WithLogger(logger nacelle.Logger) ConfigFunc {
	return func(o *options) { o.logger = logger }
}

// WithConcurrency bounds the number of views resolved at once. Values below one
// resolve sequentially.
func WithConcurrency(n int) ConfigFunc {
	return func(o *options) { o.concurrency = n }
}

// WithDefaultNamespace changes the schema whose views are emitted unqualified.
func WithDefaultNamespace(namespace string) ConfigFunc {
	return func(o *options) { o.defaultNamespace = namespace }
}

func getOptions(configs []ConfigFunc) *options {
	options := &options{
		quoter:           PostgresIdentifierQuoter,
		logger:           log.NewNilLogger(),
		concurrency:      1,
		defaultNamespace: DefaultNamespace,
	}
	for _, f := range configs {
		f(options)
	}

	if options.concurrency < 1 {
		options.concurrency = 1
	}

	return options
}
