package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const DefaultImageCollection = "product_images"

// MongoImageRepository keeps product images in a MongoDB collection with a
// secondary lookup on product_id.
type MongoImageRepository struct {
	collection *mongo.Collection
}

func NewMongoImageRepository(db *mongo.Database, collection string) *MongoImageRepository {
	if collection == "" {
		collection = DefaultImageCollection
	}
	return &MongoImageRepository{collection: db.Collection(collection)}
}

// EnsureIndexes creates the unique product_id index.
func (r *MongoImageRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "product_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("product_id_unique"),
	})
	if err != nil {
		return fmt.Errorf("create product_id index: %w", err)
	}
	return nil
}

func (r *MongoImageRepository) Create(ctx context.Context, productID int, data []byte) (*models.ProductImage, error) {
	img := &models.ProductImage{
		ProductID:  productID,
		ImageBytes: data,
		UpdatedAt:  time.Now().UTC(),
	}
	res, err := r.collection.InsertOne(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("insert image for product %d: %w", productID, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		img.ID = oid
	}
	return img, nil
}

func (r *MongoImageRepository) FindByProductID(ctx context.Context, productID int) (*models.ProductImage, error) {
	var img models.ProductImage
	err := r.collection.FindOne(ctx, bson.M{"product_id": productID}).Decode(&img)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find image for product %d: %w", productID, err)
	}
	return &img, nil
}

func (r *MongoImageRepository) Update(ctx context.Context, productID int, data []byte) (*models.ProductImage, error) {
	update := bson.M{"$set": bson.M{
		"image_bytes": data,
		"updated_at":  time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var img models.ProductImage
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"product_id": productID}, update, opts).Decode(&img)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update image for product %d: %w", productID, err)
	}
	return &img, nil
}

func (r *MongoImageRepository) Remove(ctx context.Context, productID int) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"product_id": productID})
	if err != nil {
		return false, fmt.Errorf("delete image for product %d: %w", productID, err)
	}
	return res.DeletedCount > 0, nil
}
