package models

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product mirrors a catalog entry as returned by the catalog API.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

// Popularity is the weighted popularity score used for "popular items" ranking.
func (p Product) Popularity() float64 {
	return p.Rating.Rate * float64(p.Rating.Count)
}
