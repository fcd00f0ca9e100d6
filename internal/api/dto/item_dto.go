package dto

// ItemCreateRequest registers any variant. kind is one of
// electronic_game, board_game, movie_disc, series_disc, show_disc.
type ItemCreateRequest struct {
	Kind        string  `json:"kind"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Platform    string  `json:"platform,omitempty"`
	Duration    int     `json:"duration,omitempty"`
	Genre       string  `json:"genre,omitempty"`
	Rating      string  `json:"rating,omitempty"`
	ReleaseYear int     `json:"release_year,omitempty"`
	Description string  `json:"description,omitempty"`
	Season      int     `json:"season,omitempty"`
	Tracks      int     `json:"tracks,omitempty"`
	Artist      string  `json:"artist,omitempty"`
}

// AttributeUpdateRequest payload for PUT .../attributes/:attr.
type AttributeUpdateRequest struct {
	Value string `json:"value"`
}

// LostPieceRequest payload for POST .../lost-pieces.
type LostPieceRequest struct {
	Piece string `json:"piece"`
}

// EpisodeRequest payload for POST .../episodes.
type EpisodeRequest struct {
	Duration int `json:"duration"`
}

// ItemResponse is a snapshot of an item.
type ItemResponse struct {
	Owner       UserKey `json:"owner"`
	Kind        string  `json:"kind"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	OnLoan      bool    `json:"on_loan"`
	Description string  `json:"description"`
}

// AttributeResponse returns a single attribute value.
type AttributeResponse struct {
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
}

// ListingResponse carries both the rendered listing and the items behind it.
type ListingResponse struct {
	Listing string         `json:"listing"`
	Items   []ItemResponse `json:"items"`
}
