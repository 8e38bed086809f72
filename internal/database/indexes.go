package database

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := indexContext()
	defer cancel()

	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email_unique").SetUnique(true),
	}

	_, err := db.Collection("users").Indexes().CreateOne(ctx, emailIndex)
	if err != nil {
		log.WithError(err).Error("EnsureUserIndexes: email index")
		return err
	}
	log.Info("EnsureUserIndexes: email_unique index created")
	return nil
}

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := indexContext()
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetName("slug_unique").SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "sku", Value: 1}},
			Options: options.Index().
				SetName("sku_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"sku": bson.M{"$exists": true, "$type": "string"},
				}),
		},
	}

	_, err := db.Collection("products").Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.WithError(err).Error("EnsureProductIndexes: slug/sku indexes")
		return err
	}
	log.Info("EnsureProductIndexes: slug_unique and sku_unique indexes created")
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := indexContext()
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("userId_index"),
		},
		{
			Keys:    bson.D{{Key: "assignedTo", Value: 1}},
			Options: options.Index().SetName("assignedTo_index"),
		},
	}

	_, err := db.Collection("orders").Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.WithError(err).Error("EnsureOrderIndexes: userId/assignedTo indexes")
		return err
	}
	log.Info("EnsureOrderIndexes: userId_index and assignedTo_index created")
	return nil
}

func EnsureBlogIndexes(db *mongo.Database) error {
	ctx, cancel := indexContext()
	defer cancel()

	slugIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetName("slug_unique").SetUnique(true),
	}

	_, err := db.Collection("blogs").Indexes().CreateOne(ctx, slugIndex)
	if err != nil {
		log.WithError(err).Error("EnsureBlogIndexes: slug index")
		return err
	}
	log.Info("EnsureBlogIndexes: slug_unique index created")
	return nil
}

func EnsurePartnerIndexes(db *mongo.Database) error {
	ctx, cancel := indexContext()
	defer cancel()

	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email_unique").SetUnique(true),
	}

	_, err := db.Collection("delivery-partners").Indexes().CreateOne(ctx, emailIndex)
	if err != nil {
		log.WithError(err).Error("EnsurePartnerIndexes: email index")
		return err
	}
	log.Info("EnsurePartnerIndexes: email_unique index created")
	return nil
}
