package models

import "time"

// Article is one headline returned by the news search endpoint.
// Optional upstream fields are left empty when absent.
type Article struct {
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PublishedAt time.Time `json:"publishedAt"`
	ImageURL    string    `json:"urlToImage"`
}
