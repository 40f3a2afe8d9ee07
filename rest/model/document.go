package model

import (
	"github.com/pkg/errors"
	"github.com/toyland-demo/toyland/model/document"
	"github.com/toyland-demo/toyland/model/order"
	"github.com/toyland-demo/toyland/model/review"
	"github.com/toyland-demo/toyland/model/toy"
	"github.com/toyland-demo/toyland/model/user"
)

// APIDocument is the JSON representation of a stored toy, review, order or
// user: every stored field, with the identifier under "_id" as a hex
// string.
type APIDocument map[string]any

// BuildFromService converts a stored entity into an APIDocument.
func (d *APIDocument) BuildFromService(h any) error {
	switch h.(type) {
	case toy.Toy, *toy.Toy, review.Review, *review.Review, order.Order, *order.Order, user.DBUser, *user.DBUser:
	default:
		return errors.Errorf("programmatic error: expected a stored entity but got type %T", h)
	}

	out, err := document.Export(h)
	if err != nil {
		return errors.Wrap(err, "exporting document")
	}

	*d = APIDocument(out)
	return nil
}

// ToService decodes the document's fields onto the entity out points to.
// Known fields must have their declared types, and the identifier cannot be
// set.
func (d APIDocument) ToService(out any) error {
	return document.Decode(map[string]any(d), out)
}

// Fields returns the document as a plain map.
func (d APIDocument) Fields() map[string]any {
	return map[string]any(d)
}
