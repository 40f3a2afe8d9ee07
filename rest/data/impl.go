package data

import "go.mongodb.org/mongo-driver/mongo"

// DBConnector is a struct that implements all of the methods which
// connect to the service layer of toyland. These methods abstract the link
// between the service and the API layers, allowing for changes in the
// service architecture without forcing changes to the API.
type DBConnector struct {
	DBToyConnector
	DBReviewConnector
	DBOrderConnector
	DBUserConnector
}

// NewDBConnector returns a Connector backed by the given database.
func NewDBConnector(d *mongo.Database) *DBConnector {
	return &DBConnector{
		DBToyConnector:    DBToyConnector{DB: d},
		DBReviewConnector: DBReviewConnector{DB: d},
		DBOrderConnector:  DBOrderConnector{DB: d},
		DBUserConnector:   DBUserConnector{DB: d},
	}
}

// MockConnector implements Connector in memory, for route tests.
type MockConnector struct {
	MockToyConnector
	MockReviewConnector
	MockOrderConnector
	MockUserConnector
}
