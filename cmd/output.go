package cmd

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/USA-RedDragon/zcash-rcli/internal/config"
	"github.com/cli/go-gh/v2/pkg/tableprinter"
	"github.com/goccy/go-json"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

func render(w io.Writer, format config.OutputFormat, v any) error {
	isTTY, width := terminal(w)
	if format == config.OutputAuto {
		format = config.OutputJSON
		if isTTY {
			format = config.OutputTable
		}
	}

	switch format {
	case config.OutputJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case config.OutputYAML:
		return renderYAML(w, v)
	case config.OutputTable:
		return renderTable(tableprinter.New(w, isTTY, width), v)
	default:
		return fmt.Errorf("%w: %s", config.ErrInvalidOutputFormat, format)
	}
}

func terminal(w io.Writer) (bool, int) {
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return false, 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return true, 80
	}
	return true, width
}

// renderYAML goes through the JSON encoding so field names and amount
// precision match the json output exactly.
func renderYAML(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	blockStyle(&doc)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return enc.Close()
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// renderTable prints one row per leaf value, keyed by its dotted JSON path.
func renderTable(printer tableprinter.TablePrinter, v any) error {
	rows := 0
	flatten("", reflect.ValueOf(v), func(key, value string) {
		if key != "" {
			printer.AddField(key)
		}
		printer.AddField(value)
		printer.EndRow()
		rows++
	})
	if rows == 0 {
		return nil
	}
	return printer.Render()
}

func flatten(prefix string, v reflect.Value, emit func(key, value string)) {
	if !v.IsValid() {
		return
	}
	if s, ok := v.Interface().(fmt.Stringer); ok && v.Kind() != reflect.Pointer {
		emit(prefix, s.String())
		return
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return
		}
		flatten(prefix, v.Elem(), emit)
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				continue
			}
			if name == "" {
				name = f.Name
			}
			flatten(join(prefix, name), v.Field(i), emit)
		}
	case reflect.Map:
		keys := make([]string, 0, v.Len())
		values := make(map[string]reflect.Value, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			k := fmt.Sprint(iter.Key().Interface())
			keys = append(keys, k)
			values[k] = iter.Value()
		}
		sort.Strings(keys)
		for _, k := range keys {
			flatten(join(prefix, k), values[k], emit)
		}
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			emit(prefix, string(v.Bytes()))
			return
		}
		for i := 0; i < v.Len(); i++ {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), v.Index(i), emit)
		}
	default:
		emit(prefix, fmt.Sprint(v.Interface()))
	}
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
