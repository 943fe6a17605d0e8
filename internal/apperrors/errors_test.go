package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   Response
	}{
		{
			name:       "validation",
			err:        &Validation{Field: "mime_type", Reason: "pattern"},
			wantStatus: 400,
			wantBody:   Response{Status: 400, Field: "mime_type", Error: "pattern"},
		},
		{
			name:       "not found",
			err:        &NotFound{Field: "campaign_id"},
			wantStatus: 404,
			wantBody:   Response{Status: 404, Field: "campaign_id", Error: "unknown"},
		},
		{
			name:       "forbidden",
			err:        &Forbidden{Field: "session_id"},
			wantStatus: 403,
			wantBody:   Response{Status: 403, Field: "session_id", Error: "forbidden"},
		},
		{
			name:       "storage failure hides internals",
			err:        &Storage{Err: errors.New("NoSuchBucket: virtuatable-test")},
			wantStatus: 400,
			wantBody:   Response{Status: 400, Field: "storage", Error: "failure"},
		},
		{
			name:       "wrapped errors still match",
			err:        fmt.Errorf("create character: %w", &Forbidden{Field: "session_id"}),
			wantStatus: 403,
			wantBody:   Response{Status: 403, Field: "session_id", Error: "forbidden"},
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: 500,
			wantBody:   Response{Status: 500, Field: "server", Error: "internal"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := HTTP(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestStorageUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &Storage{Err: cause}
	assert.ErrorIs(t, err, cause)
}
