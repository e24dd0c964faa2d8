// Package queue defines message payloads exchanged over the message
// broker and the background consumer that audits them.
package queue

// Queue names for catalog events. Declared durable by both publisher and
// consumer so declaration is idempotent regardless of startup order.
const (
	ProductCreatedQueue = "catalog.product.created"
	ReviewAddedQueue    = "catalog.review.added"
)

// ProductCreatedEvent is published after a product insert commits. It
// carries enough for downstream consumers to log or trigger analytics
// without querying the primary database.
type ProductCreatedEvent struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
}

// ReviewAddedEvent is published after a review append commits. Rating is
// the product's recomputed mean at the time of the append.
type ReviewAddedEvent struct {
	ProductID string  `json:"product_id"`
	UserID    string  `json:"user_id"`
	UserName  string  `json:"user_name"`
	Stars     int     `json:"stars"`
	Rating    float64 `json:"rating"`
	AddedAt   string  `json:"added_at"`
}
