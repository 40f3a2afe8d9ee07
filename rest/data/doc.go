/*
	Adding to the Connector

	The Connector is the interface that defines how the route handlers reach
	the stored toys, reviews, orders and users. All methods of the Connector
	are contained in the data package in files named for the type they allow
	access to (i.e. all order access is contained in data/order.go).

	To add to the Connector, add the method signature into the interface in
	data/data.go. Next, add the implementation that interacts with the
	database to the database backed object. These objects are named by the
	resource they allow access to. The object that allows access to Orders is
	called DBOrderConnector. Finally, add an in-memory implementation to the
	mock object. For Orders again, this object would be called
	MockOrderConnector.

	Implementing database backed methods requires using methods in the model
	packages. As much database specific information as possible should be
	kept out of these methods: queries and updates belong to the model
	package of the type they touch.
*/
package data
