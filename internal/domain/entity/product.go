package entity

import (
	"time"
)

type ProductImage struct {
	ID  string `json:"id" firestore:"id"`
	URL string `json:"url" firestore:"url"`
}

type Review struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"userId"`
	Name      string    `json:"name" firestore:"name"`
	Rating    int       `json:"rating" firestore:"rating"` // 1-5
	Comment   string    `json:"comment" firestore:"comment"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

type Product struct {
	ID          string         `json:"id" firestore:"id"`
	SellerID    string         `json:"seller_id" firestore:"sellerId"`
	Name        string         `json:"name" firestore:"name"`
	Description string         `json:"description" firestore:"description"`
	Price       float64        `json:"price" firestore:"price"`
	Category    string         `json:"category" firestore:"category"`
	Stock       int            `json:"stock" firestore:"stock"`
	Images      []ProductImage `json:"images" firestore:"images"`
	Reviews     []Review       `json:"reviews" firestore:"reviews"`

	// Derived from Reviews; recomputed on every review insert.
	Rating     float64 `json:"rating" firestore:"rating"`
	NumReviews int     `json:"num_reviews" firestore:"numReviews"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// ReviewedBy reports whether the given user already left a review.
func (p *Product) ReviewedBy(userID string) bool {
	for _, r := range p.Reviews {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// ApplyReview appends the review and recomputes the derived rating and count.
// The rating always equals the arithmetic mean of all review ratings.
func (p *Product) ApplyReview(review Review) {
	p.Reviews = append(p.Reviews, review)
	p.NumReviews = len(p.Reviews)

	sum := 0
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Rating = float64(sum) / float64(len(p.Reviews))
}
