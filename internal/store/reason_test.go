package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codewithtechno/techno-hub/internal/apperr"
)

func TestFailureReason(t *testing.T) {
	tests := map[string]struct {
		err  error
		want string
	}{
		"validation":  {apperr.Invalid("title", "is required"), apperr.Invalid("title", "is required").Error()},
		"signed out":  {apperr.ErrUnauthenticated, "please sign in first"},
		"forbidden":   {fmt.Errorf("%w: admin role required", apperr.ErrForbidden), "you do not have permission to do this"},
		"gone":        {apperr.FromCode(apperr.CodeNotFound, "sprint not found"), "it no longer exists"},
		"conflict":    {apperr.FromCode(apperr.CodeConflict, "update sprint: conflict"), "it conflicts with a change made elsewhere, refresh and try again"},
		"email taken": {apperr.ErrEmailTaken, "it conflicts with a change made elsewhere, refresh and try again"},
		"network":     {apperr.ErrTransient, "network error, please try again"},
		"other":       {fmt.Errorf("boom"), "something went wrong, please try again"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, reason(tt.err))
		})
	}

	var got Notice
	c := core{notify: func(n Notice) { got = n }}
	c.failure("update sprint", apperr.ErrConflict)
	assert.Equal(t, Failure, got.Kind)
	assert.Equal(t, "Failed to update sprint: it conflicts with a change made elsewhere, refresh and try again", got.Message)
}
