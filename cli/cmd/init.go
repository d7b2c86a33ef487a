package cmd

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/natefinch/atomic"

	"github.com/ardnew/yfelo/lang"
	"github.com/ardnew/yfelo/log"
	"github.com/ardnew/yfelo/profile"
	"github.com/ardnew/yfelo/tmpl"
)

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	confPath, ok := variable(ctx, ConfigIdentifier)
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	src := i.template(ctx)

	if err := atomic.WriteFile(confPath, strings.NewReader(src)); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// template renders the configuration template from the current flag values.
// Each flag becomes one top-level definition named like the flag with
// hyphens replaced by underscores.
func (i *Init) template(ctx context.Context) string {
	ktx := kongContextFrom(ctx)

	var sb strings.Builder

	sb.WriteString(tmpl.DefaultLeft + "@" + tmpl.HeaderName + " " + lang.Name + tmpl.DefaultRight + "\n")

	prefixIgnore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val, ok := flagValue(ktx, flag)
		if !ok {
			continue
		}

		sb.WriteString(tmpl.DefaultLeft + "@def ")
		sb.WriteString(strings.ReplaceAll(flag.Name, "-", "_"))
		sb.WriteString(" = ")
		sb.WriteString(literal(val))
		sb.WriteString(tmpl.DefaultRight + "\n")
	}

	return sb.String()
}

// flagValue returns the value of a CLI flag, or false if it is unset or
// empty.
func flagValue(ktx *kong.Context, flag *kong.Flag) (lang.Value, bool) {
	raw := ktx.FlagValue(flag)
	if raw == nil {
		return nil, false
	}

	v, err := lang.FromNative(raw)
	if err != nil {
		log.Debug("skip flag",
			slog.String("flag", flag.Name),
			slog.Any("error", err),
		)

		return nil, false
	}

	switch v := v.(type) {
	case lang.Null:
		return nil, false
	case lang.String:
		return v, v != ""
	case *lang.Array:
		return v, len(v.Items) > 0
	}

	return v, true
}

// literal formats v as an expression of the default language.
func literal(v lang.Value) string {
	switch v := v.(type) {
	case *lang.Array:
		items := make([]string, len(v.Items))
		for i, item := range v.Items {
			items[i] = literal(item)
		}

		return "[" + strings.Join(items, ", ") + "]"

	case *lang.Object:
		entries := make([]string, 0, v.Len())
		for k, item := range v.All {
			entries = append(entries, lang.FormatValue(lang.String(k))+": "+literal(item))
		}

		return "{" + strings.Join(entries, ", ") + "}"
	}

	return lang.FormatValue(v)
}
