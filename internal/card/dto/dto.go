package dto

type CreateCardInput struct {
	Name     string  `json:"name"`
	ColorHex *string `json:"color_hex"`
	Issuer   *string `json:"issuer"`
}
