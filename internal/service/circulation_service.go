package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"library-desk/internal/domain"
	"library-desk/internal/lending"
	"library-desk/internal/presentation"
	"library-desk/internal/registry"
	"library-desk/internal/repository"
)

// CirculationService is what a front end calls on user action. Every
// successful change is persisted, re-rendered and confirmed with a notice;
// failures are reported with a notice and leave state untouched.
type CirculationService interface {
	Load(ctx context.Context) error
	Refresh()

	RegisterUser(ctx context.Context, name string, userType domain.UserType) (*domain.User, error)
	UpdateUser(ctx context.Context, id, name string, userType domain.UserType) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error

	RegisterBook(ctx context.Context, title, author string) (*domain.Book, error)
	UpdateBook(ctx context.Context, id, title, author string) (*domain.Book, error)
	DeleteBook(ctx context.Context, id string) error

	CreateLoan(ctx context.Context, userID, bookID string) (*domain.Loan, error)
	ReturnBook(ctx context.Context, loanID int64) error
}

type circulationService struct {
	registry  *registry.Registry
	engine    *lending.Engine
	snapshots repository.SnapshotRepository
	presenter presentation.Presenter
	logger    *logrus.Logger
}

func NewCirculationService(
	reg *registry.Registry,
	engine *lending.Engine,
	snapshots repository.SnapshotRepository,
	presenter presentation.Presenter,
	logger *logrus.Logger,
) CirculationService {
	if presenter == nil {
		presenter = presentation.Discard{}
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &circulationService{
		registry:  reg,
		engine:    engine,
		snapshots: snapshots,
		presenter: presenter,
		logger:    logger,
	}
}

// Load restores the stored snapshot, if any, and renders. On a read error
// the current in-memory state is kept and rendered anyway.
func (s *circulationService) Load(ctx context.Context) error {
	defer s.Refresh()

	if s.snapshots == nil {
		return nil
	}
	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if snap == nil {
		s.logger.Info("no stored snapshot, using current catalogue")
		return nil
	}

	s.registry.Restore(*snap)
	s.logger.WithFields(logrus.Fields{
		"users": len(snap.Users),
		"books": len(snap.Books),
		"loans": len(snap.Loans),
	}).Info("snapshot restored")
	return nil
}

// Refresh pushes every projection to the presenter.
func (s *circulationService) Refresh() {
	users := s.registry.Users()
	s.presenter.RenderUsers(users)
	s.presenter.RenderBooks(s.registry.Books())
	s.presenter.RenderLoans(s.registry.Loans())
	s.presenter.RenderSelectableUsers(users)
	s.presenter.RenderSelectableBooks(s.registry.AvailableBooks())
}

func (s *circulationService) RegisterUser(ctx context.Context, name string, userType domain.UserType) (*domain.User, error) {
	logger := s.opLogger("register_user")

	user, err := s.registry.RegisterUser(name, userType)
	if err != nil {
		return nil, s.fail(logger, err)
	}

	logger.WithField("user_id", user.ID).Info("user registered")
	s.commit(ctx, logger, fmt.Sprintf("User registered with ID: %s", user.ID))
	return &user, nil
}

func (s *circulationService) UpdateUser(ctx context.Context, id, name string, userType domain.UserType) (*domain.User, error) {
	logger := s.opLogger("update_user").WithField("user_id", id)

	user, err := s.registry.UpdateUser(id, name, userType)
	if err != nil {
		return nil, s.fail(logger, err)
	}

	logger.Info("user updated")
	s.commit(ctx, logger, fmt.Sprintf("User %s updated", id))
	return &user, nil
}

func (s *circulationService) DeleteUser(ctx context.Context, id string) error {
	logger := s.opLogger("delete_user").WithField("user_id", id)

	if err := s.registry.DeleteUser(id); err != nil {
		return s.fail(logger, err)
	}

	logger.Info("user deleted")
	s.commit(ctx, logger, fmt.Sprintf("User %s deleted", id))
	return nil
}

func (s *circulationService) RegisterBook(ctx context.Context, title, author string) (*domain.Book, error) {
	logger := s.opLogger("register_book")

	book, err := s.registry.RegisterBook(title, author)
	if err != nil {
		return nil, s.fail(logger, err)
	}

	logger.WithField("book_id", book.ID).Info("book registered")
	s.commit(ctx, logger, fmt.Sprintf("Book registered: %s", book.ID))
	return &book, nil
}

func (s *circulationService) UpdateBook(ctx context.Context, id, title, author string) (*domain.Book, error) {
	logger := s.opLogger("update_book").WithField("book_id", id)

	book, err := s.registry.UpdateBook(id, title, author)
	if err != nil {
		return nil, s.fail(logger, err)
	}

	logger.Info("book updated")
	s.commit(ctx, logger, fmt.Sprintf("Book %s updated", id))
	return &book, nil
}

func (s *circulationService) DeleteBook(ctx context.Context, id string) error {
	logger := s.opLogger("delete_book").WithField("book_id", id)

	if err := s.registry.DeleteBook(id); err != nil {
		return s.fail(logger, err)
	}

	logger.Info("book deleted")
	s.commit(ctx, logger, fmt.Sprintf("Book %s deleted", id))
	return nil
}

func (s *circulationService) CreateLoan(ctx context.Context, userID, bookID string) (*domain.Loan, error) {
	logger := s.opLogger("create_loan").WithFields(logrus.Fields{"user_id": userID, "book_id": bookID})

	loan, err := s.engine.CreateLoan(userID, bookID)
	if err != nil {
		return nil, s.fail(logger, err)
	}

	logger.WithField("loan_id", loan.ID).Info("loan created")
	s.commit(ctx, logger, "Loan registered successfully")
	return &loan, nil
}

// ReturnBook closes a loan. Unknown or already returned tokens are ignored.
func (s *circulationService) ReturnBook(ctx context.Context, loanID int64) error {
	logger := s.opLogger("return_book").WithField("loan_id", loanID)

	loan, returned := s.engine.ReturnBook(loanID)
	if !returned {
		logger.Debug("loan not found, nothing to return")
		return nil
	}

	logger.WithFields(logrus.Fields{"user_id": loan.UserID, "book_id": loan.BookID}).Info("book returned")
	s.commit(ctx, logger, "Book returned successfully")
	return nil
}

func (s *circulationService) opLogger(op string) *logrus.Entry {
	return s.logger.WithFields(logrus.Fields{"op": op, "op_id": uuid.NewString()})
}

// commit saves, re-renders and confirms. A failed save is logged only; the
// in-memory state stays authoritative for the session.
func (s *circulationService) commit(ctx context.Context, logger *logrus.Entry, message string) {
	if s.snapshots != nil {
		if err := s.snapshots.Save(ctx, s.registry.Snapshot()); err != nil {
			logger.Errorf("save snapshot: %v", err)
		}
	}
	s.Refresh()
	s.presenter.Notify(presentation.Notice{Level: presentation.NoticeSuccess, Message: message})
}

func (s *circulationService) fail(logger *logrus.Entry, err error) error {
	kind := domain.KindOf(err)
	logger.WithField("kind", kind).Warnf("rejected: %v", err)
	s.presenter.Notify(presentation.Notice{Level: presentation.NoticeError, Message: err.Error(), Kind: kind})
	return err
}
