package catalog

import "time"

// User is an account of the marketplace back office. Password holds a bcrypt hash.
type User struct {
	ID        int64
	Email     string
	Password  string
	CreatedAt time.Time
}

// Book is a canonical catalog entry. The ISBN is unique but rows are keyed by an
// integer id, which indexes faster than a 13-character string.
type Book struct {
	ID   int64
	ISBN string
}

// Supplier deposits books to be sold. EditorISBNPrefix is set only for suppliers
// that are also publishers.
type Supplier struct {
	ID               int64
	Name             string
	EditorISBNPrefix *string
	CreatedAt        time.Time
	StripeAccountID  string
}

// Seller takes books from suppliers to sell them.
type Seller struct {
	ID              int64
	Name            string
	CreatedAt       time.Time
	StripeAccountID string
}
