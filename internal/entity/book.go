package entity

import "time"

type (
	Book struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Description string    `json:"description,omitempty"`
		AuthorIDs   []string  `json:"author_ids"`
		Subjects    []string  `json:"subjects"`
		CreatedAt   time.Time `json:"created_at"`
		UpdatedAt   time.Time `json:"updated_at"`
	}

	Author struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Bio       string    `json:"bio,omitempty"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	// BookAvailability is a search hit enriched with the copy a reservation
	// would most likely get. It is a snapshot, the copy may be gone by the time
	// the caller acts on it.
	BookAvailability struct {
		Book
		Available   bool   `json:"available"`
		AccessionNo string `json:"acc_no,omitempty"`
	}
)

// SearchableText is the text used by recommendation similarity.
func (b Book) SearchableText() string {
	text := b.Title + " " + b.Description
	for _, s := range b.Subjects {
		text += " " + s
	}
	return text
}
