package rating

type CreateRatingRequest struct {
	Score   int    `json:"score" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type RatingListResponse struct {
	Ratings []*Rating `json:"ratings"`
	Total   int64     `json:"total"`
	Average float64   `json:"average"`
}
