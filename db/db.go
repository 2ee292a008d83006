package db

import (
	"context"
	"log"

	"roamly/globals"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	TourCollection    *mongo.Collection
	UserCollection    *mongo.Collection
	ReviewCollection  *mongo.Collection
	BookingCollection *mongo.Collection
	Client            *mongo.Client
)

// Initialize MongoDB connection
func init() {
	uri := globals.Env("MONGO_URI", "mongodb://localhost:27017")
	dbName := globals.Env("MONGO_DB", "tourdb")

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	TourCollection = Client.Database(dbName).Collection("tours")
	UserCollection = Client.Database(dbName).Collection("users")
	ReviewCollection = Client.Database(dbName).Collection("reviews")
	BookingCollection = Client.Database(dbName).Collection("bookings")
}

// EnsureIndexes creates the indexes the handlers rely on: unique tour
// names, unique user emails, one review per (tour,user), and the
// geospatial / sort indexes used by the aggregation endpoints.
func EnsureIndexes(ctx context.Context) error {
	_, err := TourCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slug", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}, {Key: "ratingsAverage", Value: -1}}},
		{Keys: bson.D{{Key: "startLocation", Value: "2dsphere"}}},
	})
	if err != nil {
		return err
	}

	_, err = UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = ReviewCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tourid", Value: 1}, {Key: "userid", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	// dedupes provider callback replays
	_, err = BookingCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sessionid", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	})
	return err
}
