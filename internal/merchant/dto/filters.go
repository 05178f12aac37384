package dto

type SearchFilters struct {
	CardID     *int64  // Nil means ignore
	CategoryID *int64  // Nil means ignore
	Keyword    *string // Nil or blank means ignore; matches name or address
	Page       int     // Zero-based
	PageSize   int
}

type CreateMerchantInput struct {
	Name          string
	Address       string
	Phone         *string
	BusinessHours *string
	CategoryID    *int64
	Lat           *float64 // Both or neither
	Lng           *float64
	CardIDs       []int64
}
