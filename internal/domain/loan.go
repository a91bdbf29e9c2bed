package domain

// Loan records a book currently lent to a user. UserName and BookTitle are
// copied when the loan is created and are not refreshed by later edits.
type Loan struct {
	ID        int64  `json:"id" db:"id"`
	UserID    string `json:"userId" db:"user_id"`
	UserName  string `json:"userName" db:"user_name"`
	BookID    string `json:"bookId" db:"book_id"`
	BookTitle string `json:"bookTitle" db:"book_title"`
	Date      string `json:"date" db:"date"`
}
