package fluentpath

import (
	"os"

	"go.uber.org/zap"

	"github.com/bleroy/fluentpath/config"
	"github.com/bleroy/fluentpath/internal/trace"
)

// Options control normalization and tracing for a Path and every value
// derived from it. The zero value behaves like DefaultOptions.
type Options struct {
	// CaseSensitive keeps paths that differ only by case distinct. The
	// default folds case when comparing and deduplicating.
	CaseSensitive bool
	// Separator is the path separator used for trailing-separator
	// normalization and root detection. Zero means the host separator.
	Separator rune
	// Logger receives structured evaluation events. Nil disables tracing.
	Logger *zap.Logger
}

// DefaultOptions returns case-insensitive options using the host separator
// and no tracing.
func DefaultOptions() Options {
	return Options{Separator: os.PathSeparator}
}

// FromConfig translates a configuration into engine options, building a
// trace logger when tracing is enabled.
func FromConfig(cfg *config.Config) (Options, error) {
	opts := DefaultOptions()
	if cfg == nil {
		return opts, nil
	}
	if err := cfg.Validate(); err != nil {
		return Options{}, err
	}

	opts.CaseSensitive = cfg.Normalize.CaseSensitive
	if cfg.Normalize.Separator != "" {
		opts.Separator = []rune(cfg.Normalize.Separator)[0]
	}
	if cfg.Trace.Enabled {
		log, err := trace.BuildLogger(cfg.Trace.Level, cfg.Trace.Development)
		if err != nil {
			return Options{}, err
		}
		opts.Logger = log
	}
	return opts, nil
}

func (o Options) withDefaults() Options {
	if o.Separator == 0 {
		o.Separator = os.PathSeparator
	}
	return o
}
