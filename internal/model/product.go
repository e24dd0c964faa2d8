package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is embedded in its product document and owned by it exclusively.
// Reviews are append-only: once written they are never edited or removed.
// UserName is denormalized at submission time because the search ranker
// matches on it.
type Review struct {
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	UserName    string             `bson:"userName" json:"userName"`
	Stars       int                `bson:"stars" json:"stars"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// Product is a document in the `products` collection. SKU carries a unique
// index and is immutable once assigned. Rating is derived state: it always
// equals the arithmetic mean of the embedded review stars (0 with no
// reviews) and is recomputed in the same document write that appends a
// review.
type Product struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title                 string             `bson:"title" json:"title"`
	Label                 string             `bson:"label,omitempty" json:"label,omitempty"`
	Imgs                  []string           `bson:"imgs" json:"imgs"`
	Size                  []string           `bson:"size" json:"size"`
	Color                 []string           `bson:"color" json:"color"`
	Quantity              int                `bson:"quantity" json:"quantity"`
	SKU                   string             `bson:"sku" json:"sku"`
	Category              string             `bson:"category" json:"category"`
	Tags                  []string           `bson:"tags" json:"tags"`
	Description           string             `bson:"description,omitempty" json:"description,omitempty"`
	AdditionalInformation string             `bson:"additionalInformation,omitempty" json:"additionalInformation,omitempty"`
	Reviews               []Review           `bson:"reviews" json:"reviews"`
	Rating                float64            `bson:"rating" json:"rating"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}
