package lending_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-desk/internal/domain"
	"library-desk/internal/lending"
	"library-desk/internal/registry"
)

var fixedNow = time.Date(2026, time.March, 9, 10, 30, 0, 0, time.Local)

func newEngine(reg *registry.Registry) *lending.Engine {
	return lending.NewEngine(reg, lending.Config{Now: func() time.Time { return fixedNow }})
}

func TestCreateLoan_Success(t *testing.T) {
	// arrange
	reg := registry.Seeded()
	engine := newEngine(reg)

	// act
	loan, err := engine.CreateLoan("U001", "L002")

	// assert
	require.NoError(t, err)
	assert.Equal(t, fixedNow.UnixMilli(), loan.ID)
	assert.Equal(t, "U001", loan.UserID)
	assert.Equal(t, "Ana García", loan.UserName)
	assert.Equal(t, "L002", loan.BookID)
	assert.Equal(t, "Física Básica", loan.BookTitle)
	assert.Equal(t, "9/3/2026", loan.Date)

	user, _ := reg.User("U001")
	book, _ := reg.Book("L002")
	assert.Equal(t, 1, user.ActiveLoans)
	assert.False(t, book.Available)
	assert.Equal(t, []domain.Loan{loan}, reg.Loans())
}

func TestCreateLoan_TokensStayUniqueWithinSameMillisecond(t *testing.T) {
	reg := registry.Seeded()
	engine := newEngine(reg)

	first, err := engine.CreateLoan("U001", "L001")
	require.NoError(t, err)
	second, err := engine.CreateLoan("P001", "L002")
	require.NoError(t, err)

	assert.Equal(t, first.ID+1, second.ID)
}

func TestCreateLoan_Failures(t *testing.T) {
	cases := map[string]struct {
		userID, bookID string
		setup          func(t *testing.T, e *lending.Engine)
		want           error
	}{
		"unknown user": {userID: "U404", bookID: "L001", want: domain.ErrNotFound},
		"unknown book": {userID: "U001", bookID: "L404", want: domain.ErrNotFound},
		"book on loan": {
			userID: "P001", bookID: "L001",
			setup: func(t *testing.T, e *lending.Engine) {
				_, err := e.CreateLoan("U001", "L001")
				require.NoError(t, err)
			},
			want: domain.ErrUnavailable,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			reg := registry.Seeded()
			engine := newEngine(reg)
			if tc.setup != nil {
				tc.setup(t, engine)
			}
			before := reg.Snapshot()

			_, err := engine.CreateLoan(tc.userID, tc.bookID)

			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, before, reg.Snapshot())
		})
	}
}

func TestCreateLoan_LimitExceeded(t *testing.T) {
	// arrange
	reg := registry.Seeded()
	engine := newEngine(reg)
	for _, title := range []string{"Álgebra", "Geometría"} {
		_, err := reg.RegisterBook(title, "Autor Anónimo")
		require.NoError(t, err)
	}
	for _, id := range []string{"L001", "L002", "L003"} {
		_, err := engine.CreateLoan("U001", id)
		require.NoError(t, err)
	}
	before := reg.Snapshot()

	// act
	_, err := engine.CreateLoan("U001", "L004")

	// assert
	assert.ErrorIs(t, err, domain.ErrLimitExceeded)
	assert.Equal(t, before, reg.Snapshot())
	user, _ := reg.User("U001")
	assert.Equal(t, domain.MaxActiveLoans, user.ActiveLoans)
}

func TestCreateLoan_ConfiguredCap(t *testing.T) {
	reg := registry.Seeded()
	engine := lending.NewEngine(reg, lending.Config{MaxLoans: 1})

	_, err := engine.CreateLoan("U001", "L001")
	require.NoError(t, err)
	_, err = engine.CreateLoan("U001", "L002")

	assert.ErrorIs(t, err, domain.ErrLimitExceeded)
	assert.Equal(t, 1, engine.MaxLoans())
}

func TestCreateLoan_SnapshotFieldsAreFrozen(t *testing.T) {
	reg := registry.Seeded()
	engine := newEngine(reg)
	loan, err := engine.CreateLoan("U001", "L001")
	require.NoError(t, err)

	_, err = reg.UpdateUser("U001", "Ana Beatriz García", domain.UserTypeStudent)
	require.NoError(t, err)
	_, err = reg.UpdateBook("L001", "Cálculo Avanzado", "Stewart")
	require.NoError(t, err)

	stored := reg.Loans()[0]
	assert.Equal(t, loan.UserName, stored.UserName)
	assert.Equal(t, "Cálculo I", stored.BookTitle)
}

func TestReturnBook_Success(t *testing.T) {
	// arrange
	reg := registry.Seeded()
	engine := newEngine(reg)
	loan, err := engine.CreateLoan("P001", "L003")
	require.NoError(t, err)

	// act
	got, returned := engine.ReturnBook(loan.ID)

	// assert
	assert.True(t, returned)
	assert.Equal(t, loan, got)
	assert.Empty(t, reg.Loans())
	user, _ := reg.User("P001")
	book, _ := reg.Book("L003")
	assert.Zero(t, user.ActiveLoans)
	assert.True(t, book.Available)
}

func TestReturnBook_IsIdempotent(t *testing.T) {
	reg := registry.Seeded()
	engine := newEngine(reg)
	loan, err := engine.CreateLoan("U001", "L001")
	require.NoError(t, err)

	_, first := engine.ReturnBook(loan.ID)
	after := reg.Snapshot()
	_, second := engine.ReturnBook(loan.ID)

	assert.True(t, first)
	assert.False(t, second)
	assert.Equal(t, after, reg.Snapshot())

	_, unknown := engine.ReturnBook(42)
	assert.False(t, unknown)
}

func TestReturnBook_ToleratesMissingReferences(t *testing.T) {
	reg := registry.FromSnapshot(domain.Snapshot{
		Books: []domain.Book{{ID: "L001", Title: "Cálculo I", Author: "Stewart", Available: false}},
		Loans: []domain.Loan{
			{ID: 1, UserID: "U009", UserName: "Gone", BookID: "L001", BookTitle: "Cálculo I"},
			{ID: 2, UserID: "U009", UserName: "Gone", BookID: "L077", BookTitle: "Lost"},
		},
	})
	engine := newEngine(reg)

	_, ok1 := engine.ReturnBook(1)
	_, ok2 := engine.ReturnBook(2)

	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Empty(t, reg.Loans())
	book, _ := reg.Book("L001")
	assert.True(t, book.Available)
}

func TestInvariantsHoldAcrossMixedOperations(t *testing.T) {
	reg := registry.Seeded()
	engine := newEngine(reg)
	for _, title := range []string{"Álgebra", "Geometría", "Estadística", "Biología"} {
		_, err := reg.RegisterBook(title, "Autor Anónimo")
		require.NoError(t, err)
	}

	users := []string{"U001", "P001"}
	var open []int64
	for i := 0; i < 40; i++ {
		books := reg.Books()
		if i%3 == 2 && len(open) > 0 {
			engine.ReturnBook(open[0])
			open = open[1:]
			continue
		}
		loan, err := engine.CreateLoan(users[i%2], books[i%len(books)].ID)
		if err == nil {
			open = append(open, loan.ID)
		}
		assertInvariants(t, reg)
	}
	assertInvariants(t, reg)
}

func assertInvariants(t *testing.T, reg *registry.Registry) {
	t.Helper()
	snap := reg.Snapshot()

	perUser := map[string]int{}
	perBook := map[string]int{}
	for _, l := range snap.Loans {
		perUser[l.UserID]++
		perBook[l.BookID]++
	}
	for _, u := range snap.Users {
		assert.LessOrEqual(t, u.ActiveLoans, domain.MaxActiveLoans)
		assert.Equal(t, perUser[u.ID], u.ActiveLoans, "user %s", u.ID)
	}
	for _, b := range snap.Books {
		assert.LessOrEqual(t, perBook[b.ID], 1, "book %s", b.ID)
		assert.Equal(t, perBook[b.ID] == 0, b.Available, "book %s", b.ID)
	}
}
