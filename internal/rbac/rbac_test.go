package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckerHas(t *testing.T) {
	c := NewChecker(nil)

	assert.True(t, c.Has(RoleLearner, PermPractice))
	assert.False(t, c.Has(RoleLearner, PermHistoryView))
	assert.True(t, c.Has(RoleTeacher, PermHistoryView))
	assert.True(t, c.Has(RoleTeacher, "progress:export"))
	assert.True(t, c.Has("Admin", "anything:at-all"))
	assert.False(t, c.Has("ghost", PermPractice))
}

func TestRequire(t *testing.T) {
	h := Require(PermHistoryView)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		role string
		want int
	}{
		{"", http.StatusUnauthorized},
		{RoleLearner, http.StatusForbidden},
		{RoleTeacher, http.StatusNoContent},
		{RoleAdmin, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.role != "" {
				req = req.WithContext(WithRole(context.Background(), tt.role))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
