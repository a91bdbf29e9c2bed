// Package presentation defines what the circulation service pushes to a UI
// after each change, plus a console implementation backed by logrus.
package presentation

import "library-desk/internal/domain"

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient, user-facing message about the last operation.
type Notice struct {
	Level   NoticeLevel
	Message string
	Kind    domain.FailureKind
}

// Presenter receives read-only projections of the circulation state.
type Presenter interface {
	RenderUsers(users []domain.User)
	RenderBooks(books []domain.Book)
	RenderLoans(loans []domain.Loan)
	RenderSelectableUsers(users []domain.User)
	RenderSelectableBooks(available []domain.Book)
	Notify(notice Notice)
}

// Discard ignores everything it is given.
type Discard struct{}

func (Discard) RenderUsers([]domain.User)           {}
func (Discard) RenderBooks([]domain.Book)           {}
func (Discard) RenderLoans([]domain.Loan)           {}
func (Discard) RenderSelectableUsers([]domain.User) {}
func (Discard) RenderSelectableBooks([]domain.Book) {}
func (Discard) Notify(Notice)                       {}

var _ Presenter = Discard{}
