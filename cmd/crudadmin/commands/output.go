package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/crudadmin/internal/config"
	"github.com/fivetwenty-io/crudadmin/internal/constants"
)

// printer writes command results in the configured output format.
type printer struct {
	w      io.Writer
	format string
}

func newPrinter(cmd *cobra.Command) *printer {
	return &printer{
		w:      cmd.OutOrStdout(),
		format: viper.GetString(config.KeyOutput),
	}
}

// print encodes value as JSON or YAML, or calls table for the table format.
func (p *printer) print(value interface{}, table func(t *tablewriter.Table)) error {
	switch p.format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(p.w)
		encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

		err := encoder.Encode(value)
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}

		return nil
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(p.w)

		err := encoder.Encode(value)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}

		return encoder.Close()
	default:
		t := tablewriter.NewWriter(p.w)
		table(t)

		err := t.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	}
}

// properties prints key/value rows in a two column table.
func (p *printer) properties(value interface{}, rows [][]string) error {
	return p.print(value, func(t *tablewriter.Table) {
		t.Header("Property", "Value")

		for _, row := range rows {
			_ = t.Append(row)
		}
	})
}

// result reports a completed action.
func (p *printer) result(action, resource string, id int) error {
	if p.format == constants.FormatJSON || p.format == constants.FormatYAML {
		return p.print(map[string]interface{}{
			"action":   action,
			"resource": resource,
			"id":       id,
		}, nil)
	}

	_, err := fmt.Fprintf(p.w, "%s %s %d\n", action, resource, id)

	return err
}

func (p *printer) line(format string, args ...interface{}) {
	if p.format == constants.FormatJSON || p.format == constants.FormatYAML {
		return
	}

	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}
