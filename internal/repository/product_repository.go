package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/storefront-api/internal/model"
)

// ProductRepo stores catalog documents. SKU uniqueness and the
// one-review-per-user rule are enforced at the store boundary (unique
// index and conditional update respectively) so concurrent writers cannot
// race past an application-level pre-check.
type ProductRepo struct {
	col *mongo.Collection
}

func NewProductRepo(db *mongo.Database) *ProductRepo {
	return &ProductRepo{col: db.Collection("products")}
}

// Insert writes a new product. The unique index on sku is the
// authoritative collision check: a duplicate insert fails with
// ErrSKUExists regardless of what any earlier existence pre-check saw.
func (r *ProductRepo) Insert(ctx context.Context, p *model.Product) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Reviews == nil {
		p.Reviews = []model.Review{}
	}
	p.Rating = 0
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSKUExists
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

// SKUExists reports whether any product already uses the candidate SKU.
// This is only an optimistic pre-check; Insert remains the backstop.
func (r *ProductRepo) SKUExists(ctx context.Context, sku string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"sku": sku}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Update applies a $set patch to a product and returns the updated
// document. The sku field is dropped from the patch: a SKU is immutable
// once assigned.
func (r *ProductRepo) Update(ctx context.Context, id string, set bson.M) (model.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Product{}, ErrNotFound
	}
	delete(set, "sku")
	set["updatedAt"] = time.Now().UTC()
	var p model.Product
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Product{}, ErrNotFound
	}
	return p, err
}

// Delete removes a product by id.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFilter narrows List results with exact matches. Empty fields are
// ignored.
type ListFilter struct {
	Category string
	SKU      string
}

// List returns products matching the filter in insertion order.
func (r *ProductRepo) List(ctx context.Context, f ListFilter) ([]model.Product, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.SKU != "" {
		filter["sku"] = f.SKU
	}
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]model.Product, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddReview appends a review and recomputes the rating in a single
// conditional document write. The filter excludes products the user has
// already reviewed, so the duplicate check, the append and the rating
// update are one atomic step; two concurrent submissions by the same user
// cannot both match. The pipeline wraps the new review in $literal so
// user-supplied text is never interpreted as an aggregation expression.
func (r *ProductRepo) AddReview(ctx context.Context, productID string, rev model.Review) (model.Product, error) {
	if rev.Stars < 1 || rev.Stars > 5 {
		return model.Product{}, ErrInvalidRating
	}
	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return model.Product{}, ErrNotFound
	}
	rev.CreatedAt = time.Now().UTC()

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"reviews": bson.M{"$concatArrays": bson.A{"$reviews", bson.M{"$literal": bson.A{rev}}}},
		}}},
		{{Key: "$set", Value: bson.M{
			"rating":    bson.M{"$avg": "$reviews.stars"},
			"updatedAt": bson.M{"$literal": rev.CreatedAt},
		}}},
	}
	var p model.Product
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "reviews.userId": bson.M{"$ne": rev.UserID}},
		pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// No match means either the product is absent or the user already
		// reviewed it; one follow-up read tells the two apart.
		n, cerr := r.col.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
		if cerr != nil {
			return model.Product{}, cerr
		}
		if n == 0 {
			return model.Product{}, ErrNotFound
		}
		return model.Product{}, ErrDuplicateReview
	}
	return p, err
}
