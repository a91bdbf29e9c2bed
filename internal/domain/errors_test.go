package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"library-desk/internal/domain"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want domain.FailureKind
	}{
		{nil, domain.FailureNone},
		{fmt.Errorf("%w: name is too short", domain.ErrValidation), domain.FailureValidation},
		{fmt.Errorf("user U009: %w", domain.ErrNotFound), domain.FailureNotFound},
		{domain.ErrUnavailable, domain.FailureUnavailable},
		{fmt.Errorf("wrapped: %w", domain.ErrLimitExceeded), domain.FailureLimitExceeded},
		{domain.ErrConflict, domain.FailureConflict},
		{errors.New("disk on fire"), domain.FailureInternal},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, domain.KindOf(tc.err), "err=%v", tc.err)
	}
}

func TestUserTypePrefix(t *testing.T) {
	assert.Equal(t, "U", domain.UserTypeStudent.IDPrefix())
	assert.Equal(t, "P", domain.UserTypeFaculty.IDPrefix())
	assert.True(t, domain.UserTypeStudent.Valid())
	assert.False(t, domain.UserType("Visitor").Valid())
}

func TestSnapshotCloneDoesNotAlias(t *testing.T) {
	orig := domain.Snapshot{Books: []domain.Book{{ID: "L001", Available: true}}}
	cp := orig.Clone()
	cp.Books[0].Available = false

	assert.True(t, orig.Books[0].Available)
}
