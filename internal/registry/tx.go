package registry

import "library-desk/internal/domain"

// Tx gives a callback of Transact direct access to the registry's records.
// Pointers returned by Tx are only valid until the callback returns.
type Tx struct {
	r *Registry
}

// Transact runs fn while holding the registry lock, so every change fn makes
// to users, books and loans becomes visible together.
func (r *Registry) Transact(fn func(tx *Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(&Tx{r: r})
}

func (tx *Tx) User(id string) *domain.User {
	if i := tx.r.userIndex(id); i >= 0 {
		return &tx.r.users[i]
	}
	return nil
}

func (tx *Tx) Book(id string) *domain.Book {
	if i := tx.r.bookIndex(id); i >= 0 {
		return &tx.r.books[i]
	}
	return nil
}

func (tx *Tx) Loan(id int64) (domain.Loan, bool) {
	if i := tx.r.loanIndex(id); i >= 0 {
		return tx.r.loans[i], true
	}
	return domain.Loan{}, false
}

// LastLoanID returns the largest loan token currently held, or 0.
func (tx *Tx) LastLoanID() int64 {
	var last int64
	for _, l := range tx.r.loans {
		if l.ID > last {
			last = l.ID
		}
	}
	return last
}

func (tx *Tx) InsertLoan(loan domain.Loan) {
	tx.r.loans = append(tx.r.loans, loan)
}

// RemoveLoan deletes the loan with the given token and reports whether it existed.
func (tx *Tx) RemoveLoan(id int64) bool {
	i := tx.r.loanIndex(id)
	if i < 0 {
		return false
	}
	tx.r.loans = append(tx.r.loans[:i], tx.r.loans[i+1:]...)
	return true
}
