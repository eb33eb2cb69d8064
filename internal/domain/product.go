package domain

// Product represents a catalog entry. The id is assigned by the store on
// first save; a zero id marks an unsaved product.
type Product struct {
	ID               int    `json:"id"`
	Category         string `json:"category"`
	Title            string `json:"title"`
	SubTitle         string `json:"subTitle"`
	Brand            string `json:"brand"`
	Rating           int    `json:"rating"`
	ShortDescription string `json:"shortDescription"`
	Description      string `json:"description"`

	// Reviews is attached only at response-assembly time for the
	// single-product read path. It is never persisted and never cached.
	Reviews []Review `json:"reviews,omitempty"`
}

// WithReviews returns a copy of the product with the given reviews attached.
// The receiver is left untouched so a cached entry shared between concurrent
// readers never carries another reader's review set.
func (p Product) WithReviews(reviews []Review) Product {
	out := p
	out.Reviews = reviews
	return out
}

// Persisted reports whether the product has a store-assigned identity.
func (p Product) Persisted() bool {
	return p.ID > 0
}
