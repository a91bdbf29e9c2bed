package domain

// Snapshot is the full circulation state as handed to persistence.
type Snapshot struct {
	Users []User `json:"users"`
	Books []Book `json:"books"`
	Loans []Loan `json:"loans"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Users: append([]User(nil), s.Users...),
		Books: append([]Book(nil), s.Books...),
		Loans: append([]Loan(nil), s.Loans...),
	}
}
