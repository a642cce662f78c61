package handler_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cozyscoaches/ops-board/internal/domain"
)

func TestGrantCredential_200(t *testing.T) {
	target := uuid.New()
	access := &mockAccessServicer{
		grant: func(_ context.Context, _ *domain.User, userID uuid.UUID) (domain.Credential, error) {
			assert.Equal(t, target, userID)
			return domain.Credential{UserID: userID, Enabled: true}, nil
		},
	}
	h := newHTTPHandler(servicers{access: access})

	rec := doForm(t, h, staffUser(), "/ops/credentials/"+target.String()+"/grant", url.Values{})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"enabled":true`)
}

func TestGrantCredential_403ForNonSuperuser(t *testing.T) {
	access := &mockAccessServicer{
		grant: func(context.Context, *domain.User, uuid.UUID) (domain.Credential, error) {
			return domain.Credential{}, domain.ErrPermissionDenied
		},
	}
	h := newHTTPHandler(servicers{access: access})

	rec := doForm(t, h, staffUser(), "/ops/credentials/"+uuid.NewString()+"/grant", url.Values{})

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRevokeCredential_404WhenNeverGranted(t *testing.T) {
	access := &mockAccessServicer{
		revoke: func(context.Context, *domain.User, uuid.UUID) (domain.Credential, error) {
			return domain.Credential{}, domain.ErrNotFound
		},
	}
	h := newHTTPHandler(servicers{access: access})

	rec := doForm(t, h, staffUser(), "/ops/credentials/"+uuid.NewString()+"/revoke", url.Values{})

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "credential not found")
}
