package models

type LibraryStats struct {
	Total        int         `json:"total"`
	Mastered     int         `json:"mastered"`
	Pending      int         `json:"pending"`
	New          int         `json:"new"`
	Due          int         `json:"due"`
	ByLevel      map[int]int `json:"by_level"`
	TotalReviews int         `json:"total_reviews"`
	Accuracy     float64     `json:"accuracy"`
}
