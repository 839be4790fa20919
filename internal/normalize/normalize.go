// Package normalize cleans typed records before they are persisted.
//
// Rules are applied by walking the record with reflection and building a new
// value, so the input is never modified. Normalization cannot fail: anything it
// does not understand is copied through unchanged.
package normalize

import (
	"reflect"
	"strings"

	"go.uber.org/zap"

	"github.com/hermanjons/OrderScout-sub000/internal/domain"
	"github.com/hermanjons/OrderScout-sub000/internal/logger"
)

// Rules describes how a record is normalized
type Rules struct {
	// StripStrings trims leading and trailing whitespace of every string, at any depth
	StripStrings bool
	// Defaults maps a JSON field name to the value used when the field is nil,
	// or an empty string. Meant for fields that take part in a unique key.
	Defaults map[string]any
}

// OrderRules returns the rules applied to order records
func OrderRules() Rules {
	return Rules{StripStrings: true}
}

// LineItemRules returns the rules applied to line items.
// productCode and the line status are part of the line item unique key.
func LineItemRules() Rules {
	return Rules{
		StripStrings: true,
		Defaults: map[string]any{
			"productCode":             int64(0),
			"orderLineItemStatusName": domain.UnknownLineStatus,
		},
	}
}

// Apply returns a normalized copy of record
func Apply[T any](record T, rules Rules) (out T) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("normalization skipped", zap.Any("panic", r))
			out = record
		}
	}()

	v := reflect.ValueOf(&record).Elem()
	n := normalizer{rules: rules}
	normalized := n.value(v, "")

	result := reflect.New(v.Type()).Elem()
	result.Set(normalized)
	return result.Interface().(T)
}

// ApplyAll normalizes every record of records into a new slice
func ApplyAll[T any](records []T, rules Rules) []T {
	if records == nil {
		return nil
	}
	out := make([]T, len(records))
	for i, r := range records {
		out[i] = Apply(r, rules)
	}
	return out
}

type normalizer struct {
	rules Rules
}

func (n normalizer) defaultFor(name string, t reflect.Type) (reflect.Value, bool) {
	if name == "" || n.rules.Defaults == nil {
		return reflect.Value{}, false
	}
	def, ok := n.rules.Defaults[name]
	if !ok || def == nil {
		return reflect.Value{}, false
	}

	dv := reflect.ValueOf(def)
	if t.Kind() == reflect.Interface {
		if dv.Type().Implements(t) {
			out := reflect.New(t).Elem()
			out.Set(dv)
			return out, true
		}
		return reflect.Value{}, false
	}
	// int -> string is convertible in reflect but yields a rune, never what a default means
	if (t.Kind() == reflect.String) != (dv.Kind() == reflect.String) {
		return reflect.Value{}, false
	}
	if !dv.Type().ConvertibleTo(t) {
		return reflect.Value{}, false
	}
	return dv.Convert(t), true
}

func (n normalizer) value(v reflect.Value, name string) reflect.Value {
	switch v.Kind() {
	case reflect.String:
		s := v.String()
		if n.rules.StripStrings {
			s = strings.TrimSpace(s)
		}
		if s == "" {
			if def, ok := n.defaultFor(name, v.Type()); ok {
				return def
			}
		}
		out := reflect.New(v.Type()).Elem()
		out.SetString(s)
		return out

	case reflect.Pointer:
		if v.IsNil() {
			if def, ok := n.defaultFor(name, v.Type().Elem()); ok {
				p := reflect.New(v.Type().Elem())
				p.Elem().Set(def)
				return p
			}
			return v
		}
		p := reflect.New(v.Type().Elem())
		p.Elem().Set(n.value(v.Elem(), name))
		return p

	case reflect.Interface:
		if v.IsNil() {
			if def, ok := n.defaultFor(name, v.Type()); ok {
				return def
			}
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(n.value(v.Elem(), name))
		return out

	case reflect.Struct:
		return n.structValue(v)

	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		if v.Type().Elem().Kind() == reflect.Uint8 {
			reflect.Copy(out, v)
			return out
		}
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(n.value(v.Index(i), ""))
		}
		return out

	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			key := ""
			if iter.Key().Kind() == reflect.String {
				key = iter.Key().String()
			}
			out.SetMapIndex(iter.Key(), n.value(iter.Value(), key))
		}
		return out

	default:
		return v
	}
}

func (n normalizer) structValue(v reflect.Value) reflect.Value {
	t := v.Type()

	// structs with unexported state (decimal.Decimal, time.Time) are copied as-is
	for i := 0; i < t.NumField(); i++ {
		if !t.Field(i).IsExported() {
			return v
		}
	}

	out := reflect.New(t).Elem()
	for i := 0; i < t.NumField(); i++ {
		out.Field(i).Set(n.value(v.Field(i), jsonName(t.Field(i))))
	}
	return out
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" && !f.Anonymous {
		return f.Name
	}
	return name
}
