package domain

// Review is a product review owned by the external review service. The
// catalog only ever reads reviews; it never creates or mutates them.
type Review struct {
	ID                 int    `json:"id"`
	ProductID          int    `json:"productId"`
	UserName           string `json:"userName"`
	Title              string `json:"title"`
	Rating             int    `json:"rating"`
	IsVerifiedPurchase bool   `json:"isVerifiedPurchase"`
	IsHelpful          bool   `json:"isHelpful"`
	IsAbuse            bool   `json:"isAbuse"`
	Description        string `json:"description"`
}
