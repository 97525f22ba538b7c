package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyReviewRecomputesMean(t *testing.T) {
	product := &Product{}

	product.ApplyReview(Review{UserID: "u1", Rating: 5})
	assert.Equal(t, 1, product.NumReviews)
	assert.InDelta(t, 5.0, product.Rating, 1e-9)

	product.ApplyReview(Review{UserID: "u2", Rating: 2})
	assert.Equal(t, 2, product.NumReviews)
	assert.InDelta(t, 3.5, product.Rating, 1e-9)

	product.ApplyReview(Review{UserID: "u3", Rating: 4})
	assert.Equal(t, 3, product.NumReviews)
	assert.InDelta(t, 11.0/3.0, product.Rating, 1e-9)
}

func TestReviewedBy(t *testing.T) {
	product := &Product{Reviews: []Review{{UserID: "u1", Rating: 4}}}

	assert.True(t, product.ReviewedBy("u1"))
	assert.False(t, product.ReviewedBy("u2"))
}
