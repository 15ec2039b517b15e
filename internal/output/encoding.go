package output

import (
	"bytes"
	"encoding"
	"encoding/json"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// EncodeJSON produces byte-identical JSON output
// - Stable key ordering (sorted alphabetically)
// - Floats rounded to the given number of decimals
// - Absent values without omitempty rendered as null
func EncodeJSON(v interface{}, places int, indent string) ([]byte, error) {
	normalized := Normalize(v, places)

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if indent != "" {
		encoder.SetIndent("", indent)
	}

	if err := encoder.Encode(normalized); err != nil {
		return nil, err
	}

	// Remove the trailing newline added by Encode
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// EncodeYAML renders the same normalized tree as EncodeJSON as YAML.
func EncodeYAML(v interface{}, places int) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Normalize(v, places)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()

// Normalize recursively converts v into maps, slices and scalars with
// rounded floats. Structs become maps keyed by their json tag names.
func Normalize(v interface{}, places int) interface{} {
	if v == nil {
		return nil
	}
	return normalizeValue(reflect.ValueOf(v), places)
}

func normalizeValue(val reflect.Value, places int) interface{} {
	// Dereference pointers
	for val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}

	// Timestamps and similar values render through their text form.
	if val.Type().Implements(textMarshalerType) {
		text, err := val.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil
		}
		return string(text)
	}

	switch val.Kind() {
	case reflect.Map:
		return normalizeMap(val, places)
	case reflect.Slice, reflect.Array:
		return normalizeSlice(val, places)
	case reflect.Struct:
		return normalizeStruct(val, places)
	case reflect.Float32, reflect.Float64:
		return RoundTo(val.Float(), places)
	case reflect.String:
		return val.String()
	case reflect.Bool:
		return val.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return val.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return val.Uint()
	default:
		return val.Interface()
	}
}

// normalizeMap converts a string-keyed map, dropping nil values
func normalizeMap(val reflect.Value, places int) map[string]interface{} {
	if val.IsNil() {
		return nil
	}

	result := make(map[string]interface{})
	iter := val.MapRange()
	for iter.Next() {
		value := normalizeValue(iter.Value(), places)
		if value != nil {
			result[iter.Key().String()] = value
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

func normalizeSlice(val reflect.Value, places int) interface{} {
	if val.Kind() == reflect.Slice && val.IsNil() {
		return nil
	}

	length := val.Len()
	result := make([]interface{}, length)
	for i := 0; i < length; i++ {
		result[i] = normalizeValue(val.Index(i), places)
	}
	return result
}

func normalizeStruct(val reflect.Value, places int) map[string]interface{} {
	result := make(map[string]interface{})
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		tagName, omitEmpty := parseJSONTag(jsonTag)
		if tagName == "" {
			tagName = field.Name
		}

		normalized := normalizeValue(val.Field(i), places)

		// Like encoding/json, a non-nil pointer is never empty: a height of
		// 0 m is a value, not an absence.
		if omitEmpty && (normalized == nil || (field.Type.Kind() != reflect.Ptr && isZeroValue(normalized))) {
			continue
		}
		result[tagName] = normalized
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

func parseJSONTag(tag string) (name string, omitEmpty bool) {
	if tag == "" {
		return "", false
	}
	parts := strings.Split(tag, ",")
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return parts[0], omitEmpty
}

// isZeroValue checks if a normalized value is zero/empty
func isZeroValue(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case int64:
		return val == 0
	case uint64:
		return val == 0
	case float64:
		return val == 0
	case string:
		return val == ""
	case []interface{}:
		return len(val) == 0
	case map[string]interface{}:
		return len(val) == 0
	default:
		return false
	}
}
