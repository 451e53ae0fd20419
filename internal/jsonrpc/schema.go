package jsonrpc

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-errors/errors"
	"github.com/goccy/go-json"
)

var (
	ErrMissingField = errors.New("missing required field")

	unmarshalerType = reflect.TypeOf((*interface{ UnmarshalJSON([]byte) error })(nil)).Elem()
	rawMessageType  = reflect.TypeOf(json.RawMessage(nil))
)

// decodeStrict decodes raw into out, rejecting fields out does not declare
// and fields out requires but raw lacks. A field is optional when it is a
// pointer or tagged omitempty; a required field that is null counts as
// missing unless it is a json.RawMessage.
func decodeStrict(raw json.RawMessage, out any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return checkRequired(reflect.TypeOf(out).Elem(), raw, "")
}

func checkRequired(t reflect.Type, raw json.RawMessage, path string) error {
	if t.Kind() == reflect.Pointer {
		if isNull(raw) {
			return nil
		}
		t = t.Elem()
	}
	if reflect.PointerTo(t).Implements(unmarshalerType) || t.Implements(unmarshalerType) {
		return nil
	}

	switch t.Kind() {
	case reflect.Struct:
		if isNull(raw) {
			return nil
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return err
		}
		return checkFields(t, fields, path)
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 || isNull(raw) {
			return nil
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return err
		}
		for i, item := range items {
			if err := checkRequired(t.Elem(), item, fmt.Sprintf("%s[%d].", strings.TrimSuffix(path, "."), i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		if isNull(raw) {
			return nil
		}
		var entries map[string]json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			return err
		}
		for key, entry := range entries {
			if err := checkRequired(t.Elem(), entry, fmt.Sprintf("%s[%q].", strings.TrimSuffix(path, "."), key)); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkFields(t reflect.Type, fields map[string]json.RawMessage, path string) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")

		if f.Anonymous && name == "" && f.Type.Kind() == reflect.Struct {
			if err := checkFields(f.Type, fields, path); err != nil {
				return err
			}
			continue
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}

		value, ok := lookupField(fields, name)
		if !ok || (isNull(value) && f.Type != rawMessageType) {
			if f.Type.Kind() == reflect.Pointer || hasOption(opts, "omitempty") {
				continue
			}
			return fmt.Errorf("%w %q", ErrMissingField, path+name)
		}
		if err := checkRequired(f.Type, value, path+name+"."); err != nil {
			return err
		}
	}
	return nil
}

// lookupField mirrors the decoder's key matching: exact first, then
// case-insensitive.
func lookupField(fields map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	if v, ok := fields[name]; ok {
		return v, true
	}
	for k, v := range fields {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func hasOption(opts, want string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == want {
			return true
		}
	}
	return false
}
