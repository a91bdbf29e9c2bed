package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-desk/internal/domain"
	"library-desk/internal/repository/file"
)

func TestLoadMissingFileReturnsNil(t *testing.T) {
	repo := file.NewSnapshotRepository(filepath.Join(t.TempDir(), "library_data.json"))
	require.NoError(t, repo.Init(context.Background()))

	snap, err := repo.Load(context.Background())

	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "library_data.json")
	repo := file.NewSnapshotRepository(path)
	require.NoError(t, repo.Init(ctx))
	want := domain.Snapshot{
		Users: []domain.User{{ID: "U001", Name: "Ana García", Type: domain.UserTypeStudent, ActiveLoans: 1}},
		Books: []domain.Book{{ID: "L001", Title: "Cálculo I", Author: "Stewart", Available: false}},
		Loans: []domain.Loan{{ID: 1767000000000, UserID: "U001", UserName: "Ana García", BookID: "L001", BookTitle: "Cálculo I", Date: "29/12/2025"}},
	}

	require.NoError(t, repo.Save(ctx, want))
	got, err := repo.Load(ctx)

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestSaveWritesEmptyCollectionsAsArrays(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "library_data.json")
	repo := file.NewSnapshotRepository(path)

	require.NoError(t, repo.Save(ctx, domain.Snapshot{}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"users":[],"books":[],"loans":[]}`, string(raw))
}

func TestLoadReadsBrowserShapedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library_data.json")
	doc := `{"users":[{"id":"P001","name":"Prof. Carlos Ruiz","type":"Faculty","activeLoans":0}],
"books":[{"id":"L002","title":"Física Básica","author":"Sears","available":true}],"loans":[]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	got, err := file.NewSnapshotRepository(path).Load(context.Background())

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.UserTypeFaculty, got.Users[0].Type)
	assert.True(t, got.Books[0].Available)
	assert.Empty(t, got.Loans)
}

func TestLoadCorruptDocumentFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library_data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := file.NewSnapshotRepository(path).Load(context.Background())

	assert.Error(t, err)
}
