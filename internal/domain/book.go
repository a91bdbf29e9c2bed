package domain

// BookIDPrefix is the identifier prefix shared by every catalogue entry.
const BookIDPrefix = "L"

// Book represents a single lendable copy in the catalogue.
type Book struct {
	ID        string `json:"id" db:"id"`
	Title     string `json:"title" db:"title"`
	Author    string `json:"author" db:"author"`
	Available bool   `json:"available" db:"available"`
}
