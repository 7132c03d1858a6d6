package bunkai

import (
	"github.com/hashicorp/go-hclog"

	"github.com/ppiankov/fastbunkai/internal/boundary"
	"github.com/ppiankov/fastbunkai/internal/model"
	"github.com/ppiankov/fastbunkai/internal/rules"
)

type options struct {
	source       rules.Source
	policy       boundary.Policy
	logger       hclog.Logger
	warnAboveLen int
}

// Option configures an Engine
type Option func(*options)

// WithSource replaces the built-in rule layers.
// If nil is passed, the built-in layers are used.
func WithSource(src rules.Source) Option {
	return func(o *options) {
		if src == nil {
			src = rules.Default()
		}
		o.source = src
	}
}

// WithPolicy replaces the boundary policy table
func WithPolicy(p boundary.Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithLogger sets the logger used for warnings. If nil is passed, output is discarded.
func WithLogger(l hclog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = hclog.NewNullLogger()
		}
		o.logger = l
	}
}

// WithLargeTextThreshold sets the estimated input size in bytes above
// which a warning is logged. Zero or less disables the warning.
func WithLargeTextThreshold(bytes int) Option {
	return func(o *options) {
		o.warnAboveLen = bytes
	}
}

func defaultOptions() options {
	return options{
		source:       rules.Default(),
		policy:       boundary.DefaultPolicy(),
		logger:       hclog.NewNullLogger(),
		warnAboveLen: model.DefaultLargeTextWarnBytes,
	}
}
