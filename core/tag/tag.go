// Package tag fills zero-valued struct fields from `default:"..."` tags.
package tag

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

const (
	tagName   = "default"
	separator = ","
	maxDepth  = 16
)

var (
	ErrTargetMustBePointer = errors.New("tag: target must be a non-nil pointer to a struct")
	ErrUnsupportedType     = errors.New("tag: unsupported field type")
	ErrMaxDepthExceeded    = errors.New("tag: max recursion depth exceeded")
)

// FieldError reports which field a default could not be applied to.
type FieldError struct {
	Path  string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("tag: field %q default %q: %v", e.Path, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ApplyDefaults sets default values for struct fields based on struct tags.
// Fields that already hold a non-zero value are left alone. Nested structs,
// non-nil pointers to structs and struct slice elements are walked
// recursively; a nil struct pointer stays nil.
//
//	type Config struct {
//	    Addr          string        `default:":8080"`
//	    AccessTTL     time.Duration `default:"5m"`
//	}
func ApplyDefaults(target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrTargetMustBePointer
	}
	return applyStruct(v.Elem(), "", 0)
}

func applyStruct(v reflect.Value, path string, depth int) error {
	if depth >= maxDepth {
		return ErrMaxDepthExceeded
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)
		if !fv.CanSet() {
			continue
		}
		fieldPath := field.Name
		if path != "" {
			fieldPath = path + "." + field.Name
		}
		if err := applyField(fv, field.Tag.Get(tagName), fieldPath, depth); err != nil {
			return err
		}
	}
	return nil
}

func applyField(v reflect.Value, def, path string, depth int) error {
	switch v.Kind() {
	case reflect.Struct:
		if def != "" && v.IsZero() {
			return parse(v, def, path)
		}
		return applyStruct(v, path, depth+1)

	case reflect.Pointer:
		if v.Type().Elem().Kind() == reflect.Struct {
			if v.IsNil() {
				return nil
			}
			return applyStruct(v.Elem(), path, depth+1)
		}
		if v.IsNil() && def != "" {
			v.Set(reflect.New(v.Type().Elem()))
			return parse(v.Elem(), def, path)
		}
		return nil

	case reflect.Slice:
		if v.Len() > 0 {
			for i := 0; i < v.Len(); i++ {
				elem := v.Index(i)
				if elem.Kind() == reflect.Struct {
					if err := applyStruct(elem, fmt.Sprintf("%s[%d]", path, i), depth+1); err != nil {
						return err
					}
				}
			}
			return nil
		}
	}

	if def == "" || !v.IsZero() {
		return nil
	}
	return parse(v, def, path)
}

func parse(v reflect.Value, s, path string) error {
	if err := setValue(v, s); err != nil {
		return &FieldError{Path: path, Value: s, Err: err}
	}
	return nil
}

func setValue(v reflect.Value, s string) error {
	if v.CanAddr() {
		if u, ok := v.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return u.UnmarshalText([]byte(s))
		}
	}

	s = strings.TrimSpace(s)
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.Type() == reflect.TypeFor[time.Duration]() {
			d, err := time.ParseDuration(s)
			if err != nil {
				return err
			}
			v.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.Slice:
		parts := strings.Split(s, separator)
		slice := reflect.MakeSlice(v.Type(), len(parts), len(parts))
		for i, part := range parts {
			if err := setValue(slice.Index(i), part); err != nil {
				return err
			}
		}
		v.Set(slice)
	default:
		return ErrUnsupportedType
	}
	return nil
}
