// Package lending creates and reverses loans over a shared registry, keeping
// the loan ledger, user loan counters and book availability in step.
package lending

import (
	"fmt"
	"time"

	"library-desk/internal/domain"
	"library-desk/internal/registry"
)

// DefaultDateLayout renders dates the way the desk's es-ES locale does (d/m/yyyy).
const DefaultDateLayout = "2/1/2006"

type Config struct {
	MaxLoans   int
	DateLayout string
	Now        func() time.Time
}

// Engine applies loan transactions to a registry it does not own.
type Engine struct {
	reg *registry.Registry
	cfg Config
}

func NewEngine(reg *registry.Registry, cfg Config) *Engine {
	if cfg.MaxLoans <= 0 {
		cfg.MaxLoans = domain.MaxActiveLoans
	}
	if cfg.DateLayout == "" {
		cfg.DateLayout = DefaultDateLayout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{reg: reg, cfg: cfg}
}

// MaxLoans reports the per-user loan cap in force.
func (e *Engine) MaxLoans() int {
	return e.cfg.MaxLoans
}

// CreateLoan lends bookID to userID. Either the loan is recorded, the user's
// counter is incremented and the book is flagged unavailable, or nothing changes.
func (e *Engine) CreateLoan(userID, bookID string) (domain.Loan, error) {
	var loan domain.Loan
	err := e.reg.Transact(func(tx *registry.Tx) error {
		user := tx.User(userID)
		if user == nil {
			return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
		}
		book := tx.Book(bookID)
		if book == nil {
			return fmt.Errorf("book %s: %w", bookID, domain.ErrNotFound)
		}
		if !book.Available {
			return fmt.Errorf("%w: %s is already on loan", domain.ErrUnavailable, book.ID)
		}
		if user.ActiveLoans >= e.cfg.MaxLoans {
			return fmt.Errorf("%w: user %s already holds %d books", domain.ErrLimitExceeded, user.ID, e.cfg.MaxLoans)
		}

		now := e.cfg.Now()
		token := now.UnixMilli()
		if last := tx.LastLoanID(); token <= last {
			token = last + 1
		}

		loan = domain.Loan{
			ID:        token,
			UserID:    user.ID,
			UserName:  user.Name,
			BookID:    book.ID,
			BookTitle: book.Title,
			Date:      now.Local().Format(e.cfg.DateLayout),
		}
		tx.InsertLoan(loan)
		user.ActiveLoans++
		book.Available = false
		return nil
	})
	if err != nil {
		return domain.Loan{}, err
	}
	return loan, nil
}

// ReturnBook closes the loan with the given token. An unknown token is not an
// error; returned is false and nothing changes. Users or books that vanished
// while the loan was open are skipped.
func (e *Engine) ReturnBook(loanID int64) (loan domain.Loan, returned bool) {
	_ = e.reg.Transact(func(tx *registry.Tx) error {
		l, ok := tx.Loan(loanID)
		if !ok {
			return nil
		}
		if user := tx.User(l.UserID); user != nil && user.ActiveLoans > 0 {
			user.ActiveLoans--
		}
		if book := tx.Book(l.BookID); book != nil {
			book.Available = true
		}
		tx.RemoveLoan(loanID)
		loan, returned = l, true
		return nil
	})
	return loan, returned
}
