package querybuilder

import (
	"errors"
	"reflect"
	"strings"
)

var (
	errNilModel       = errors.New("model cannot be nil")
	errNotStructModel = errors.New("model must be struct")
	errNoModelColumns = errors.New("model has no db columns")
)

// InsertModel builds an INSERT from the exported db-tagged fields of model.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	cols, vals, err := modelColumns(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

// UpdateModel returns an UPDATE that sets every db-tagged field of model.
// Build errors surface from ToSQL.
func UpdateModel(table string, model any) *UpdateBuilder {
	b := Update(table)
	cols, vals, err := modelColumns(model)
	if err != nil {
		b.err = err
		return b
	}
	for i, col := range cols {
		b.Set(col, vals[i])
	}
	return b
}

func modelColumns(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, errNilModel
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, errNotStructModel
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, errNoModelColumns
	}
	return cols, vals, nil
}
