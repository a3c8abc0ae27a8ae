package cmd

import (
	"fmt"

	"github.com/cwbudde/exprscript/internal/value"
	"github.com/tidwall/gjson"
)

// fromGJSON maps a parsed JSON value onto the engine's Value model
// (spec.md §3), used by `run --vars-json` to seed context variables
// (SPEC_FULL.md Ambient Stack / Domain Stack: github.com/tidwall/gjson).
func fromGJSON(r gjson.Result) (value.Value, error) {
	switch r.Type {
	case gjson.Null:
		return value.None, nil
	case gjson.True:
		return value.NewBool(true), nil
	case gjson.False:
		return value.NewBool(false), nil
	case gjson.Number:
		return value.NewNumberFromString(r.Raw)
	case gjson.String:
		return value.NewString(r.Str), nil
	case gjson.JSON:
		if r.IsArray() {
			elems := r.Array()
			out := make([]value.Value, len(elems))
			for i, e := range elems {
				v, err := fromGJSON(e)
				if err != nil {
					return value.Value{}, err
				}
				out[i] = v
			}
			return value.NewList(out), nil
		}
		m := value.NewMap()
		var convErr error
		r.ForEach(func(key, val gjson.Result) bool {
			v, err := fromGJSON(val)
			if err != nil {
				convErr = err
				return false
			}
			m.AsMap().Set(value.NewString(key.String()), v)
			return true
		})
		return m, convErr
	default:
		return value.Value{}, fmt.Errorf("unsupported JSON value %q", r.Raw)
	}
}

// fromAny maps a generically-decoded value (e.g. from YAML's
// map[string]any result) onto the engine's Value model, used by
// `run --vars-yaml` (SPEC_FULL.md: github.com/goccy/go-yaml).
func fromAny(v any) (value.Value, error) {
	switch x := v.(type) {
	case nil:
		return value.None, nil
	case bool:
		return value.NewBool(x), nil
	case string:
		return value.NewString(x), nil
	case int:
		return value.NewNumberFromInt64(int64(x)), nil
	case int64:
		return value.NewNumberFromInt64(x), nil
	case float64:
		return value.NewNumberFromFloat(x), nil
	case []any:
		out := make([]value.Value, len(x))
		for i, e := range x {
			ev, err := fromAny(e)
			if err != nil {
				return value.Value{}, err
			}
			out[i] = ev
		}
		return value.NewList(out), nil
	case map[string]any:
		m := value.NewMap()
		for k, e := range x {
			ev, err := fromAny(e)
			if err != nil {
				return value.Value{}, err
			}
			m.AsMap().Set(value.NewString(k), ev)
		}
		return m, nil
	default:
		return value.Value{}, fmt.Errorf("unsupported YAML value of type %T", v)
	}
}

// toNative converts an evaluated Value back into plain Go data (nested
// map[string]any / []any / string / float64 / bool / nil) suitable for
// sjson to re-encode as JSON (`run --result-json`; SPEC_FULL.md:
// github.com/tidwall/sjson).
func toNative(v value.Value) any {
	switch v.Kind() {
	case value.KindNone:
		return nil
	case value.KindBool:
		return v.AsBool()
	case value.KindString:
		return v.AsString()
	case value.KindNumber:
		f, _ := v.AsNumber().Float64()
		return f
	case value.KindList:
		elems := v.AsList()
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = toNative(e)
		}
		return out
	case value.KindMap:
		entries := v.AsMap().Entries()
		out := make(map[string]any, len(entries))
		for _, e := range entries {
			out[e.Key.String()] = toNative(e.Val)
		}
		return out
	default:
		return nil
	}
}
