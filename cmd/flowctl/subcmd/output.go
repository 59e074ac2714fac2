package subcmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"flowci-console/internal/application/config"
	"flowci-console/internal/domain/model"
	"flowci-console/pkg/ordered"
	"flowci-console/pkg/yaml"
)

// render writes v as JSON or YAML, or calls table for the table format.
// YAML is produced from the JSON encoding so ordered maps keep their order.
func render(w io.Writer, format config.Format, v any, table func(tw *tabwriter.Writer)) error {
	switch format {
	case config.FormatJSON, config.FormatYAML:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		if format == config.FormatYAML {
			if data, err = yaml.JSONToYAML(data); err != nil {
				return fmt.Errorf("encode output: %w", err)
			}
		} else {
			data = append(data, '\n')
		}
		_, err = w.Write(data)
		return err
	default:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}

func recordTable(records []model.Record, columns ...string) func(*tabwriter.Writer) {
	return func(tw *tabwriter.Writer) {
		for i, c := range columns {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, strings.ToUpper(c))
		}
		fmt.Fprintln(tw)
		for _, r := range records {
			for i, c := range columns {
				if i > 0 {
					fmt.Fprint(tw, "\t")
				}
				fmt.Fprint(tw, r.String(c))
			}
			fmt.Fprintln(tw)
		}
	}
}

func recordFields(r model.Record) func(*tabwriter.Writer) {
	return func(tw *tabwriter.Writer) {
		keys := make([]string, 0, len(r))
		for k := range r {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := r.String(k)
			if v == "" && r[k] != nil {
				data, _ := json.Marshal(r[k])
				v = string(data)
			}
			fmt.Fprintf(tw, "%s\t%s\n", k, v)
		}
	}
}

func envTable(env ordered.Map[string, string]) func(*tabwriter.Writer) {
	return func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "NAME\tVALUE")
		env.Each(func(k, v string) bool {
			fmt.Fprintf(tw, "%s\t%s\n", k, v)
			return true
		})
	}
}
