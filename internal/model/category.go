package model

type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// CategoryCount is one row of the popular-categories ranking for a card.
type CategoryCount struct {
	Category      Category `json:"category"`
	MerchantCount int      `json:"merchant_count"`
}
