package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServices(t *testing.T) {
	db := &mockDB{}

	svcs := NewServices(db, DefaultPolicy())

	require.NotNil(t, svcs)
	assert.NotNil(t, svcs.Tenant)
	assert.NotNil(t, svcs.Plan)
	assert.NotNil(t, svcs.Subscription)
	assert.NotNil(t, svcs.Document)
	assert.NotNil(t, svcs.Storage)
	assert.NotNil(t, svcs.APIKey)
}

func TestDefaultPolicy(t *testing.T) {
	assert.Equal(t, 7*24*time.Hour, DefaultPolicy().WarnWindow)
}
