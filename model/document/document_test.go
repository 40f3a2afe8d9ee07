package document

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sampleEntity struct {
	Id     primitive.ObjectID `bson:"_id,omitempty" mapstructure:"_id"`
	Email  string             `bson:"email,omitempty" mapstructure:"email"`
	Fields map[string]any     `bson:",inline" mapstructure:",remain"`
}

func TestParseId(t *testing.T) {
	Convey("When parsing identifiers", t, func() {
		Convey("a 24 character hex string should parse", func() {
			id := primitive.NewObjectID()
			parsed, err := ParseId(id.Hex())
			So(err, ShouldBeNil)
			So(parsed, ShouldEqual, id)
		})

		Convey("anything else should be rejected", func() {
			for _, in := range []string{"", "robot", "123", id24NotHex} {
				parsed, err := ParseId(in)
				So(err, ShouldNotBeNil)
				So(parsed.IsZero(), ShouldBeTrue)
			}
		})
	})
}

const id24NotHex = "zzzzzzzzzzzzzzzzzzzzzzzz"

func TestDecode(t *testing.T) {
	Convey("When decoding client fields onto an entity", t, func() {
		Convey("known fields should be typed and the rest kept", func() {
			out := sampleEntity{}
			err := Decode(map[string]any{
				"email": "kid@example.com",
				"name":  "Robot",
				"price": 20.0,
			}, &out)
			So(err, ShouldBeNil)
			So(out.Email, ShouldEqual, "kid@example.com")
			So(out.Fields, ShouldResemble, map[string]any{"name": "Robot", "price": 20.0})
		})

		Convey("a known field with the wrong type should fail", func() {
			out := sampleEntity{}
			err := Decode(map[string]any{"email": 42.0}, &out)
			So(err, ShouldNotBeNil)
		})

		Convey("field names should match exactly", func() {
			out := sampleEntity{}
			err := Decode(map[string]any{"Email": "upper@example.com"}, &out)
			So(err, ShouldBeNil)
			So(out.Email, ShouldEqual, "")
			So(out.Fields["Email"], ShouldEqual, "upper@example.com")
		})

		Convey("an identifier should be refused", func() {
			out := sampleEntity{}
			err := Decode(map[string]any{"_id": "abc"}, &out)
			So(err, ShouldEqual, ErrIdentifierSupplied)
		})

		Convey("operator, path and empty field names should be refused", func() {
			for _, fields := range []map[string]any{
				{"$set": map[string]any{"price": 1.0}},
				{"$x": 1.0},
				{"a.b": 2.0},
				{"": "blank"},
				{"box": map[string]any{"$inc": 1.0}},
				{"parts": []any{"wheel", map[string]any{"size.cm": 3.0}}},
			} {
				out := sampleEntity{}
				So(Decode(fields, &out), ShouldNotBeNil)
			}
		})

		Convey("nested objects with plain names should be kept", func() {
			out := sampleEntity{}
			err := Decode(map[string]any{"box": map[string]any{"width": 3.0}, "parts": []any{map[string]any{"name": "wheel"}}}, &out)
			So(err, ShouldBeNil)
			So(out.Fields["box"], ShouldResemble, map[string]any{"width": 3.0})
		})
	})
}

func TestExport(t *testing.T) {
	Convey("When exporting an entity", t, func() {
		id := primitive.NewObjectID()
		when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		entity := sampleEntity{
			Id:    id,
			Email: "kid@example.com",
			Fields: map[string]any{
				"name":    "Robot",
				"tags":    []any{"metal", bson.M{"size": "large"}},
				"details": bson.D{{Key: "color", Value: "red"}},
				"added":   when,
			},
		}

		out, err := Export(&entity)
		So(err, ShouldBeNil)

		Convey("every stored key should be present", func() {
			So(out[IdKey], ShouldEqual, id)
			So(out["email"], ShouldEqual, "kid@example.com")
			So(out["name"], ShouldEqual, "Robot")
			So(out["added"].(time.Time).Equal(when), ShouldBeTrue)
		})

		Convey("nested documents and arrays should be plain maps and slices", func() {
			So(out["details"], ShouldResemble, map[string]any{"color": "red"})
			So(out["tags"], ShouldResemble, []any{"metal", map[string]any{"size": "large"}})
		})

		Convey("Fields should drop the identifier", func() {
			fields, err := Fields(&entity)
			So(err, ShouldBeNil)
			_, ok := fields[IdKey]
			So(ok, ShouldBeFalse)
			So(fields["email"], ShouldEqual, "kid@example.com")
		})

		Convey("empty known fields should not be stored", func() {
			out, err := Export(&sampleEntity{Fields: map[string]any{"name": "Kite"}})
			So(err, ShouldBeNil)
			So(out, ShouldResemble, map[string]any{"name": "Kite"})
		})
	})
}

func TestKnownString(t *testing.T) {
	Convey("When reading a known string field", t, func() {
		lookup := func(doc bson.M) bson.RawValue {
			raw, err := bson.Marshal(doc)
			So(err, ShouldBeNil)
			return bson.Raw(raw).Lookup("email")
		}

		Convey("a string should be returned as is", func() {
			var fields map[string]any
			val, err := KnownString(lookup(bson.M{"email": "kid@example.com"}), "email", &fields)
			So(err, ShouldBeNil)
			So(val, ShouldEqual, "kid@example.com")
			So(fields, ShouldBeNil)
		})

		Convey("a missing field should read as empty", func() {
			var fields map[string]any
			val, err := KnownString(lookup(bson.M{"name": "Kid"}), "email", &fields)
			So(err, ShouldBeNil)
			So(val, ShouldBeEmpty)
			So(fields, ShouldBeNil)
		})

		Convey("any other value should be moved to the remaining fields", func() {
			fields := map[string]any{"name": "Kid"}
			val, err := KnownString(lookup(bson.M{"email": bson.M{"work": "kid@example.com"}}), "email", &fields)
			So(err, ShouldBeNil)
			So(val, ShouldBeEmpty)
			So(fields["email"], ShouldResemble, map[string]any{"work": "kid@example.com"})
			So(fields["name"], ShouldEqual, "Kid")
		})
	})
}

func TestMarshal(t *testing.T) {
	Convey("When marshalling an entity", t, func() {
		id := primitive.NewObjectID()

		Convey("the identifier and known fields should come first", func() {
			raw, err := Marshal(id, bson.D{{Key: "email", Value: "kid@example.com"}}, map[string]any{"name": "Kid"})
			So(err, ShouldBeNil)
			elems, err := bson.Raw(raw).Elements()
			So(err, ShouldBeNil)
			So(len(elems), ShouldEqual, 3)
			So(elems[0].Key(), ShouldEqual, IdKey)
			So(elems[1].Key(), ShouldEqual, "email")
		})

		Convey("a remaining field should fill an empty known field", func() {
			raw, err := Marshal(primitive.NilObjectID, bson.D{{Key: "email", Value: ""}}, map[string]any{"email": 42})
			So(err, ShouldBeNil)
			So(bson.Raw(raw).Lookup(IdKey).IsZero(), ShouldBeTrue)
			So(bson.Raw(raw).Lookup("email").Int32(), ShouldEqual, 42)
		})

		Convey("a known field should win over a remaining field", func() {
			raw, err := Marshal(id, bson.D{{Key: "email", Value: "kid@example.com"}}, map[string]any{"email": 42})
			So(err, ShouldBeNil)
			So(bson.Raw(raw).Lookup("email").StringValue(), ShouldEqual, "kid@example.com")
		})
	})
}
