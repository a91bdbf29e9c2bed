// Package registry owns the users, books and loans collections and the
// validated operations that mutate users and books.
package registry

import (
	"fmt"
	"strings"
	"sync"

	"library-desk/internal/domain"
	"library-desk/internal/idgen"
)

// Registry holds the circulation state. The zero value is not usable; build
// one with New, Seeded or FromSnapshot.
type Registry struct {
	mu    sync.Mutex
	users []domain.User
	books []domain.Book
	loans []domain.Loan
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		users: []domain.User{},
		books: []domain.Book{},
		loans: []domain.Loan{},
	}
}

// Seeded returns a registry holding the default catalogue used on first run.
func Seeded() *Registry {
	r := New()
	r.users = append(r.users,
		domain.User{ID: "U001", Name: "Ana García", Type: domain.UserTypeStudent},
		domain.User{ID: "P001", Name: "Prof. Carlos Ruiz", Type: domain.UserTypeFaculty},
	)
	r.books = append(r.books,
		domain.Book{ID: "L001", Title: "Cálculo I", Author: "Stewart", Available: true},
		domain.Book{ID: "L002", Title: "Física Básica", Author: "Sears", Available: true},
		domain.Book{ID: "L003", Title: "Química Orgánica", Author: "Wade", Available: true},
	)
	return r
}

// FromSnapshot returns a registry restored from s.
func FromSnapshot(s domain.Snapshot) *Registry {
	r := New()
	r.Restore(s)
	return r
}

// Restore replaces every collection with the contents of s.
func (r *Registry) Restore(s domain.Snapshot) {
	cp := s.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = nonNil(cp.Users)
	r.books = nonNil(cp.Books)
	r.loans = nonNil(cp.Loans)
}

// Snapshot returns a copy of the current state.
func (r *Registry) Snapshot() domain.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.Snapshot{Users: r.users, Books: r.books, Loans: r.loans}.Clone()
}

func (r *Registry) Users() []domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.User{}, r.users...)
}

func (r *Registry) Books() []domain.Book {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Book{}, r.books...)
}

// AvailableBooks lists books that can be lent right now.
func (r *Registry) AvailableBooks() []domain.Book {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Book{}
	for _, b := range r.books {
		if b.Available {
			out = append(out, b)
		}
	}
	return out
}

func (r *Registry) Loans() []domain.Loan {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Loan{}, r.loans...)
}

func (r *Registry) User(id string) (domain.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.userIndex(id); i >= 0 {
		return r.users[i], true
	}
	return domain.User{}, false
}

func (r *Registry) Book(id string) (domain.Book, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.bookIndex(id); i >= 0 {
		return r.books[i], true
	}
	return domain.Book{}, false
}

// RegisterUser validates and appends a new user with no active loans.
func (r *Registry) RegisterUser(name string, userType domain.UserType) (domain.User, error) {
	name, err := normalizeName(name)
	if err != nil {
		return domain.User{}, err
	}
	if err := checkUserType(userType); err != nil {
		return domain.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, u := range r.users {
		if u.Type == userType {
			count++
		}
	}
	id, err := idgen.Next(userType.IDPrefix(), count, func(id string) bool { return r.userIndex(id) >= 0 })
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	user := domain.User{ID: id, Name: name, Type: userType}
	r.users = append(r.users, user)
	return user, nil
}

// UpdateUser changes name and type in place. ID and loan count are kept.
func (r *Registry) UpdateUser(id, name string, userType domain.UserType) (domain.User, error) {
	name, err := normalizeName(name)
	if err != nil {
		return domain.User{}, err
	}
	if err := checkUserType(userType); err != nil {
		return domain.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.userIndex(id)
	if i < 0 {
		return domain.User{}, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	r.users[i].Name = name
	r.users[i].Type = userType
	return r.users[i], nil
}

// DeleteUser removes a user that holds no loans.
func (r *Registry) DeleteUser(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.userIndex(id)
	if i < 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	if r.users[i].ActiveLoans > 0 {
		return fmt.Errorf("%w: user %s has active loans", domain.ErrConflict, id)
	}
	r.users = append(r.users[:i], r.users[i+1:]...)
	return nil
}

// RegisterBook validates and appends a new, available book.
func (r *Registry) RegisterBook(title, author string) (domain.Book, error) {
	title, err := normalizeText(title, "title")
	if err != nil {
		return domain.Book{}, err
	}
	author, err = normalizeText(author, "author")
	if err != nil {
		return domain.Book{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, b := range r.books {
		if strings.HasPrefix(b.ID, domain.BookIDPrefix) {
			count++
		}
	}
	id, err := idgen.Next(domain.BookIDPrefix, count, func(id string) bool { return r.bookIndex(id) >= 0 })
	if err != nil {
		return domain.Book{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	book := domain.Book{ID: id, Title: title, Author: author, Available: true}
	r.books = append(r.books, book)
	return book, nil
}

// UpdateBook changes title and author. Availability is left alone.
func (r *Registry) UpdateBook(id, title, author string) (domain.Book, error) {
	title, err := normalizeText(title, "title")
	if err != nil {
		return domain.Book{}, err
	}
	author, err = normalizeText(author, "author")
	if err != nil {
		return domain.Book{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.bookIndex(id)
	if i < 0 {
		return domain.Book{}, fmt.Errorf("book %s: %w", id, domain.ErrNotFound)
	}
	r.books[i].Title = title
	r.books[i].Author = author
	return r.books[i], nil
}

// DeleteBook removes a book that is not on loan.
func (r *Registry) DeleteBook(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.bookIndex(id)
	if i < 0 {
		return fmt.Errorf("book %s: %w", id, domain.ErrNotFound)
	}
	if !r.books[i].Available {
		return fmt.Errorf("%w: book %s is on loan", domain.ErrConflict, id)
	}
	r.books = append(r.books[:i], r.books[i+1:]...)
	return nil
}

func (r *Registry) userIndex(id string) int {
	for i := range r.users {
		if r.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) bookIndex(id string) int {
	for i := range r.books {
		if r.books[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) loanIndex(id int64) int {
	for i := range r.loans {
		if r.loans[i].ID == id {
			return i
		}
	}
	return -1
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
