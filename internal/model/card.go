package model

type Card struct {
	ID       int64   `db:"id" json:"id"`
	Name     string  `db:"name" json:"name"`
	ColorHex *string `db:"color_hex" json:"color_hex"`
	Issuer   *string `db:"issuer" json:"issuer"`
}

type CardStatistics struct {
	Card          Card `json:"card"`
	MerchantCount int  `json:"merchant_count"`
	IsActive      bool `json:"is_active"`
}
