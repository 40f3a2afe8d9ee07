package model

import (
	"fmt"

	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
	"github.com/toyland-demo/toyland/db"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The acknowledgement models keep the field names the database driver
// reports writes with, which is what clients of the service consume.

// APIInsertResult acknowledges a created document.
type APIInsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedId   string `json:"insertedId"`
}

func (r *APIInsertResult) BuildFromService(h any) error {
	switch v := h.(type) {
	case primitive.ObjectID:
		r.Acknowledged = true
		r.InsertedId = v.Hex()
	default:
		return errors.Errorf("programmatic error: expected an identifier but got type %T", h)
	}
	return nil
}

// APIUpdateResult acknowledges an update or upsert.
type APIUpdateResult struct {
	Acknowledged  bool    `json:"acknowledged"`
	MatchedCount  int     `json:"matchedCount"`
	ModifiedCount int     `json:"modifiedCount"`
	UpsertedCount int     `json:"upsertedCount"`
	UpsertedId    *string `json:"upsertedId"`
}

func (r *APIUpdateResult) BuildFromService(h any) error {
	info, ok := h.(*db.ChangeInfo)
	if !ok || info == nil {
		return errors.Errorf("programmatic error: expected change info but got type %T", h)
	}

	r.Acknowledged = true
	r.MatchedCount = info.Matched
	r.ModifiedCount = info.Updated
	r.UpsertedCount = info.Upserted
	r.UpsertedId = nil
	switch id := info.UpsertedId.(type) {
	case nil:
	case primitive.ObjectID:
		r.UpsertedId = utility.ToStringPtr(id.Hex())
	default:
		r.UpsertedId = utility.ToStringPtr(fmt.Sprint(id))
	}

	return nil
}

// APIDeleteResult acknowledges a delete.
type APIDeleteResult struct {
	Acknowledged bool `json:"acknowledged"`
	DeletedCount int  `json:"deletedCount"`
}

func (r *APIDeleteResult) BuildFromService(h any) error {
	info, ok := h.(*db.ChangeInfo)
	if !ok || info == nil {
		return errors.Errorf("programmatic error: expected change info but got type %T", h)
	}

	r.Acknowledged = true
	r.DeletedCount = info.Removed
	return nil
}

// APIAdminStatus reports whether a user holds the admin role.
type APIAdminStatus struct {
	Admin bool `json:"admin"`
}
