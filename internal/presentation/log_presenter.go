package presentation

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"library-desk/internal/domain"
)

// LogPresenter writes each projection as structured log lines.
type LogPresenter struct {
	logger   *logrus.Logger
	maxLoans int
}

func NewLogPresenter(logger *logrus.Logger, maxLoans int) *LogPresenter {
	if logger == nil {
		logger = logrus.New()
	}
	if maxLoans <= 0 {
		maxLoans = domain.MaxActiveLoans
	}
	return &LogPresenter{logger: logger, maxLoans: maxLoans}
}

func (p *LogPresenter) RenderUsers(users []domain.User) {
	for _, u := range users {
		p.logger.WithFields(logrus.Fields{
			"view":  "users",
			"id":    u.ID,
			"type":  u.Type,
			"loans": fmt.Sprintf("%d / %d", u.ActiveLoans, p.maxLoans),
		}).Info(u.Name)
	}
}

func (p *LogPresenter) RenderBooks(books []domain.Book) {
	for _, b := range books {
		status := "available"
		if !b.Available {
			status = "on loan"
		}
		p.logger.WithFields(logrus.Fields{
			"view":   "books",
			"id":     b.ID,
			"author": b.Author,
			"status": status,
		}).Info(b.Title)
	}
}

func (p *LogPresenter) RenderLoans(loans []domain.Loan) {
	if len(loans) == 0 {
		p.logger.WithField("view", "loans").Info("no active loans")
		return
	}
	for _, l := range loans {
		p.logger.WithFields(logrus.Fields{
			"view":    "loans",
			"loan_id": l.ID,
			"user":    l.UserName,
			"date":    l.Date,
		}).Info(l.BookTitle)
	}
}

func (p *LogPresenter) RenderSelectableUsers(users []domain.User) {
	for _, u := range users {
		p.logger.WithFields(logrus.Fields{"view": "select_user", "id": u.ID}).
			Debugf("%s (%d loans)", u.Name, u.ActiveLoans)
	}
}

func (p *LogPresenter) RenderSelectableBooks(available []domain.Book) {
	for _, b := range available {
		p.logger.WithFields(logrus.Fields{"view": "select_book", "id": b.ID}).
			Debugf("%s - %s", b.Title, b.Author)
	}
}

func (p *LogPresenter) Notify(notice Notice) {
	entry := p.logger.WithField("notice", notice.Level)
	if notice.Level == NoticeError {
		entry.WithField("kind", notice.Kind).Warn(notice.Message)
		return
	}
	entry.Info(notice.Message)
}

var _ Presenter = (*LogPresenter)(nil)
