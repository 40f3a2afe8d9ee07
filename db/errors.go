package db

import (
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

// ResultsNotFound returns true when the error is the driver's report that
// no document matched a single-document read.
func ResultsNotFound(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(errors.Cause(err), mongo.ErrNoDocuments)
}

func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}

	return mongo.IsDuplicateKeyError(errors.Cause(err))
}

func IsDocumentLimit(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(errors.Cause(err).Error(), "an inserted document is too large")
}
