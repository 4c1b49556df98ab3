package http

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	apierrors "github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/errors"
)

// bindForm copies form values into dst by the `form` tags of its fields,
// descending into embedded structs. Absent keys leave fields untouched.
//
// Slice fields accept repeated keys, comma separated values or both. A key
// that is present with only empty values binds an empty, non-nil slice.
func bindForm(values url.Values, dst interface{}) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("form target must be a pointer to a struct, got %T", dst)
	}
	return bindStruct(values, v.Elem())
}

func bindStruct(values url.Values, v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if err := bindStruct(values, v.Field(i)); err != nil {
				return err
			}
			continue
		}

		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" || !field.IsExported() {
			continue
		}
		raw, present := values[name]
		if !present {
			continue
		}
		if err := setField(v.Field(i), name, raw); err != nil {
			return err
		}
	}
	return nil
}

func setField(fv reflect.Value, name string, raw []string) error {
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(scalar(raw))

	case reflect.Int:
		text := strings.TrimSpace(scalar(raw))
		if text == "" {
			return nil
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			return apierrors.ErrValidation(name, fmt.Sprintf("%s must be an integer", name))
		}
		fv.SetInt(int64(n))

	case reflect.Ptr:
		if fv.Type().Elem().Kind() != reflect.Int {
			return fmt.Errorf("unsupported form field %s of type %s", name, fv.Type())
		}
		text := strings.TrimSpace(scalar(raw))
		if text == "" {
			return nil
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			return apierrors.ErrValidation(name, fmt.Sprintf("%s must be an integer", name))
		}
		fv.Set(reflect.ValueOf(&n))

	case reflect.Slice:
		items := listItems(raw)
		out := reflect.MakeSlice(fv.Type(), 0, len(items))
		switch fv.Type().Elem().Kind() {
		case reflect.String:
			for _, item := range items {
				out = reflect.Append(out, reflect.ValueOf(item))
			}
		case reflect.Int:
			for _, item := range items {
				n, err := strconv.Atoi(item)
				if err != nil {
					return apierrors.ErrValidation(name, fmt.Sprintf("%s must be a list of integers", name))
				}
				out = reflect.Append(out, reflect.ValueOf(n))
			}
		default:
			return fmt.Errorf("unsupported form field %s of type %s", name, fv.Type())
		}
		fv.Set(out)

	default:
		return fmt.Errorf("unsupported form field %s of kind %s", name, fv.Kind())
	}
	return nil
}

// scalar returns the first value with surrounding spaces and line breaks
// removed. Tabs survive so a literal tab can name the delimiter.
func scalar(raw []string) string {
	if len(raw) == 0 {
		return ""
	}
	return strings.Trim(raw[0], " \r\n")
}

func listItems(raw []string) []string {
	var items []string
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
	}
	return items
}
