package domain

type BookStatus string

const (
	BookStatusReady    BookStatus = "READY"
	BookStatusNotReady BookStatus = "NOT READY"
)

// LocalizedText carries the bilingual fields the catalog exposes.
type LocalizedText struct {
	TH string `json:"th"`
	EN string `json:"en"`
}

// Book is a catalog entry. Quantity is the loanable-copy count and the sole
// source of truth for borrow eligibility; it is mutated only through the
// inventory ledger and never goes negative.
type Book struct {
	ID          int32         `json:"id"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
	ImageURL    string        `json:"image_url"`
	CategoryID  int32         `json:"category_id"`
	Category    *Category     `json:"category,omitempty"` // Populated when fetching book details
	Status      BookStatus    `json:"status"`
	Quantity    int32         `json:"quantity"`
	CreatedOn   string        `json:"created_on"`
	UpdatedOn   string        `json:"updated_on"`
}

type Category struct {
	ID   int32         `json:"id"`
	Name LocalizedText `json:"name"`
}
