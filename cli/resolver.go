package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/yfelo/lang"
	"github.com/ardnew/yfelo/log"
	"github.com/ardnew/yfelo/tmpl"
)

// resolve returns a [kong.ConfigurationLoader] for configuration files
// written as templates of the default language.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx, "config"), "/path/to/config")
//
// The template is rendered with the builtins in scope and its output is
// discarded. Flag values are read from the definitions it leaves in the root
// frame, or from the entries of the object bound to name when there is one:
//   - Flag names with hyphens (e.g., "log-level") should use underscores
//     in the config file (e.g., "log_level")
//   - Functions are ignored
//   - Numbers are passed to Kong as strings
//
// Example config file:
//
//	{@def log_level = 'debug'}
//	{@def log_format = 'json'}
//	{@def log_pretty = true}
//
// This configuration will be applied to Kong flags:
//
//	--log-level=debug
//	--log-format=json
//	--log-pretty=true
//
// Command-line flags override config file values. A config file that fails
// to parse or render is ignored with a warning.
func resolve(ctx context.Context, name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		e := lang.NewEngine(tmpl.WithLogger(log.Default()))

		nodes, err := e.ParseReader(ctx, r)
		if err != nil {
			log.WarnContext(ctx, "ignore configuration", slog.Any("error", err))

			return config{}, nil
		}

		c := lang.NewContext(lang.WithBuiltins(), lang.WithLogger(log.Default()))

		if _, err := e.Render(ctx, nodes, c); err != nil {
			log.WarnContext(ctx, "ignore configuration", slog.Any("error", err))

			return config{}, nil
		}

		vars := c.Locals()
		if v, ok := vars.Get(name); ok {
			if obj, ok := v.(*lang.Object); ok {
				vars = obj
			}
		}

		return objectToMap(vars), nil
	}
}

// config implements [kong.Resolver] for template configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already rendered successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but identifiers use
	// underscores. Try both forms.
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// objectToMap converts the entries of obj to native values Kong can parse.
func objectToMap(obj *lang.Object) config {
	result := make(config, obj.Len())

	for key, v := range obj.All {
		if v.Kind() == lang.KindFunction {
			continue
		}

		// Kong requires numbers as strings for parsing
		switch n := lang.ToNative(v).(type) {
		case int64:
			result[key] = strconv.FormatInt(n, 10)
		case float64:
			result[key] = strconv.FormatFloat(n, 'f', -1, 64)
		default:
			result[key] = n
		}
	}

	return result
}
