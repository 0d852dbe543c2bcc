package tenancy

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTenantIDRoundTrip(t *testing.T) {
	tenantID := uuid.New()
	ctx := WithTenantID(context.Background(), tenantID)

	got, ok := TenantIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, tenantID, got)
}

func TestTenantIDMissing(t *testing.T) {
	_, ok := TenantIDFromContext(context.Background())
	assert.False(t, ok)
}

func TestTenantIDNilRejected(t *testing.T) {
	ctx := WithTenantID(context.Background(), uuid.Nil)
	_, ok := TenantIDFromContext(ctx)
	assert.False(t, ok)
}
