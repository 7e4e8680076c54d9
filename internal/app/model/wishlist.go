package model

// FavoriteItem is one saved product in the wishlist. Price is kept as the
// display text it was saved with; AddedAt is unix milliseconds.
type FavoriteItem struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Price   string `json:"price"`
	Image   string `json:"image"`
	AddedAt int64  `json:"addedAt"`
}
