package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// FormatValue renders v for display: strings are quoted and everything else
// uses its nested display form.
func FormatValue(v Value) string {
	if s, ok := v.(String); ok {
		return quote(string(s))
	}

	return display(v)
}

// FormatJSON writes v as JSON to the writer.
func FormatJSON(_ context.Context, w io.Writer, v Value, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(encodable(v), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(encodable(v))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes v as YAML to the writer. A non-positive indent selects
// flow style.
func FormatYAML(ctx context.Context, w io.Writer, v Value, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, encodable(v), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}
