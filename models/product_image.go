package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductImage holds the raw image bytes for one product. ProductID is a plain
// reference into the relational store and is not enforced by the image store.
type ProductImage struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID  int                `bson:"product_id" json:"product_id"`
	ImageBytes []byte             `bson:"image_bytes" json:"-"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// HasBytes reports whether the image carries any data.
func (i *ProductImage) HasBytes() bool {
	return i != nil && len(i.ImageBytes) > 0
}
