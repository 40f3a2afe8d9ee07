// Package document holds the helpers shared by the stored entity models:
// identifier parsing, decoding client-supplied fields onto schema structs
// and exporting stored entities as plain maps.
package document

import (
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IdKey is the key every entity stores its identifier under.
const IdKey = "_id"

// ErrIdentifierSupplied is returned for client fields that try to set the
// storage-assigned identifier.
var ErrIdentifierSupplied = errors.Errorf("field '%s' is assigned by the database and cannot be set", IdKey)

// ParseId converts the hex representation of an identifier.
func ParseId(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errors.Errorf("'%s' is not a valid identifier", id)
	}

	return oid, nil
}

// ForbidIdentifier returns ErrIdentifierSupplied if the fields carry an
// identifier.
func ForbidIdentifier(fields map[string]any) error {
	if _, ok := fields[IdKey]; ok {
		return ErrIdentifierSupplied
	}

	return nil
}

// ValidateFieldNames rejects field names the database would read as an
// operator or a path: empty names, names starting with '$' and names
// containing '.'. Nested objects, including those inside arrays, are
// checked too.
func ValidateFieldNames(fields map[string]any) error {
	for name, val := range fields {
		switch {
		case name == "":
			return errors.New("field names must not be empty")
		case strings.HasPrefix(name, "$"):
			return errors.Errorf("field name '%s' must not start with '$'", name)
		case strings.Contains(name, "."):
			return errors.Errorf("field name '%s' must not contain '.'", name)
		}
		if err := validateNestedFieldNames(val); err != nil {
			return errors.Wrapf(err, "in field '%s'", name)
		}
	}

	return nil
}

func validateNestedFieldNames(v any) error {
	switch val := v.(type) {
	case map[string]any:
		return ValidateFieldNames(val)
	case []any:
		for i := range val {
			if err := validateNestedFieldNames(val[i]); err != nil {
				return errors.Wrapf(err, "at index %d", i)
			}
		}
	}

	return nil
}

// Decode assigns client-supplied fields to out, a pointer to an entity
// struct. Fields named by the struct must have the declared type; all other
// fields land in the struct's ",remain" map.
func Decode(fields map[string]any, out any) error {
	if err := ForbidIdentifier(fields); err != nil {
		return err
	}
	if err := ValidateFieldNames(fields); err != nil {
		return err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:    out,
		TagName:   "mapstructure",
		MatchName: func(mapKey, fieldName string) bool { return mapKey == fieldName },
	})
	if err != nil {
		return errors.Wrap(err, "constructing decoder")
	}

	return errors.Wrap(decoder.Decode(fields), "decoding fields")
}

// KnownString reads a known string field from a stored document. Documents
// written by other clients may hold a value of another type there; such a
// value is kept in fields under key and the known field reads as empty.
func KnownString(raw bson.RawValue, key string, fields *map[string]any) (string, error) {
	switch raw.Type {
	case 0:
		return "", nil
	case bson.TypeString:
		return raw.StringValue(), nil
	}

	var val any
	if err := raw.Unmarshal(&val); err != nil {
		return "", errors.Wrapf(err, "decoding field '%s'", key)
	}
	if *fields == nil {
		*fields = map[string]any{}
	}
	(*fields)[key] = normalize(val)

	return "", nil
}

// Marshal encodes an entity as its identifier, then its known fields, then
// its remaining fields. Zero identifiers and empty known fields are left
// out, and a remaining field only fills a known key that was left out.
func Marshal(id primitive.ObjectID, known bson.D, fields map[string]any) ([]byte, error) {
	out := make(bson.D, 0, 1+len(known)+len(fields))
	if !id.IsZero() {
		out = append(out, bson.E{Key: IdKey, Value: id})
	}

	written := map[string]bool{IdKey: true}
	for _, e := range known {
		if e.Value == nil || e.Value == "" {
			continue
		}
		out = append(out, e)
		written[e.Key] = true
	}
	for k, v := range fields {
		if written[k] {
			continue
		}
		out = append(out, bson.E{Key: k, Value: v})
	}

	return bson.Marshal(out)
}

// Export renders a stored entity as a map with the same keys the entity
// has in the database.
func Export(entity any) (map[string]any, error) {
	raw, err := bson.Marshal(entity)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling entity")
	}

	out := bson.M{}
	if err = bson.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrap(err, "unmarshalling entity")
	}

	return normalizeMap(out), nil
}

// Fields returns the entity's stored fields without its identifier, for
// use as the body of a $set.
func Fields(entity any) (map[string]any, error) {
	out, err := Export(entity)
	if err != nil {
		return nil, err
	}
	delete(out, IdKey)

	return out, nil
}

func normalizeMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = normalize(v)
	}
	return out
}

func normalize(v any) any {
	switch val := v.(type) {
	case primitive.M:
		return normalizeMap(val)
	case map[string]any:
		return normalizeMap(val)
	case primitive.D:
		return normalizeMap(val.Map())
	case primitive.A:
		return normalizeSlice(val)
	case []any:
		return normalizeSlice(val)
	case primitive.DateTime:
		return val.Time().UTC()
	case time.Time:
		return val.UTC()
	default:
		return v
	}
}

func normalizeSlice(in []any) []any {
	out := make([]any, len(in))
	for i := range in {
		out[i] = normalize(in[i])
	}
	return out
}
