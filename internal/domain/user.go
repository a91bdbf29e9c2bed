package domain

// MaxActiveLoans caps how many books a single user may hold at once.
const MaxActiveLoans = 3

// UserType classifies a library user. It also selects the id prefix.
type UserType string

const (
	UserTypeStudent UserType = "Student"
	UserTypeFaculty UserType = "Faculty"
)

// Valid reports whether t is one of the recognised user categories.
func (t UserType) Valid() bool {
	return t == UserTypeStudent || t == UserTypeFaculty
}

// IDPrefix returns the identifier prefix for users of this type.
func (t UserType) IDPrefix() string {
	if t == UserTypeFaculty {
		return "P"
	}
	return "U"
}

// User represents a registered borrower.
type User struct {
	ID          string   `json:"id" db:"id"`
	Name        string   `json:"name" db:"name"`
	Type        UserType `json:"type" db:"type"`
	ActiveLoans int      `json:"activeLoans" db:"active_loans"`
}
