package catalog

type productDTO struct {
	ProductName  string `json:"product_name"`
	Manufacturer string `json:"manufacturer"`
	Vehicle      string `json:"vehicle"`
}
