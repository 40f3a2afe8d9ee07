package data

import (
	"maps"
	"reflect"

	"github.com/pkg/errors"
	"github.com/toyland-demo/toyland/model/document"
)

// mergeFields decodes the stored fields of entity, overwritten by fields,
// onto out. It reports whether the result differs from entity, the way the
// database reports a modified document.
func mergeFields(entity any, fields map[string]any, out any) (bool, error) {
	current, err := document.Fields(entity)
	if err != nil {
		return false, errors.Wrap(err, "exporting stored fields")
	}

	merged := maps.Clone(current)
	for k, v := range fields {
		merged[k] = v
	}
	if err = document.Decode(merged, out); err != nil {
		return false, errors.Wrap(err, "applying fields")
	}

	after, err := document.Fields(out)
	if err != nil {
		return false, errors.Wrap(err, "exporting merged fields")
	}

	return !reflect.DeepEqual(current, after), nil
}
