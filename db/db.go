package db

import (
	"context"
	"errors"
	"log"
	"os"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection         *mongo.Collection
	CropsCollection        *mongo.Collection
	CollectionsCollection  *mongo.Collection
	OrdersCollection       *mongo.Collection
	TransactionsCollection *mongo.Collection
	Client                 *mongo.Client
)

// Initialize MongoDB connection
func init() {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("agrisetu")
	UserCollection = database.Collection("users")
	CropsCollection = database.Collection("crops")
	CollectionsCollection = database.Collection("aggcollections")
	OrdersCollection = database.Collection("orders")
	TransactionsCollection = database.Collection("transactions")
}

// WithTransaction runs fn inside a session transaction so paired writes
// land or fail together. Standalone mongod has no transaction support;
// in that case fn runs directly and the downgrade is logged.
func WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := Client.StartSession()
	if err != nil {
		log.Printf("db: sessions unavailable, running without transaction: %v", err)
		return fn(ctx)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && isTransactionUnsupported(err) {
		log.Printf("db: transactions unsupported, running without transaction: %v", err)
		return fn(ctx)
	}
	return err
}

func isTransactionUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == 20 // IllegalOperation: not a replica set
	}
	return false
}

// CreateIndexes sets up the unique and query indexes the handlers rely on.
func CreateIndexes(ctx context.Context) error {
	userIdx := []mongo.IndexModel{
		{Keys: bson.M{"email": 1}, Options: options.Index().SetUnique(true)},
	}
	if _, err := UserCollection.Indexes().CreateMany(ctx, userIdx); err != nil {
		return err
	}

	cropIdx := []mongo.IndexModel{
		{Keys: bson.M{"traceabilityid": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "farmerid", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "status", Value: 1}}},
	}
	if _, err := CropsCollection.Indexes().CreateMany(ctx, cropIdx); err != nil {
		return err
	}

	colIdx := []mongo.IndexModel{
		{Keys: bson.M{"collectionid": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.M{"traceability.batchnumber": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.M{"sourcecrop": 1}},
		{Keys: bson.D{{Key: "aggregatorid", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.M{"collectiondate": -1}},
	}
	if _, err := CollectionsCollection.Indexes().CreateMany(ctx, colIdx); err != nil {
		return err
	}

	orderIdx := []mongo.IndexModel{
		{Keys: bson.M{"orderid": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "farmerid", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "buyerid", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.M{"orderdate": -1}},
	}
	_, err := OrdersCollection.Indexes().CreateMany(ctx, orderIdx)
	return err
}
