package keystore

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyDerivationIsDeterministic(t *testing.T) {
	provider, err := NewDerivingProvider("master-secret")
	require.NoError(t, err)

	electionID := uuid.New()
	first, err := provider.Key(context.Background(), electionID)
	require.NoError(t, err)
	second, err := provider.Key(context.Background(), electionID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, KeySize)
}

func TestKeysDifferPerElection(t *testing.T) {
	provider, err := NewDerivingProvider("master-secret")
	require.NoError(t, err)

	a, err := provider.Key(context.Background(), uuid.New())
	require.NoError(t, err)
	b, err := provider.Key(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestKeysDifferPerMaster(t *testing.T) {
	electionID := uuid.New()

	first, err := NewDerivingProvider("master-one")
	require.NoError(t, err)
	second, err := NewDerivingProvider("master-two")
	require.NoError(t, err)

	a, err := first.Key(context.Background(), electionID)
	require.NoError(t, err)
	b, err := second.Key(context.Background(), electionID)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestEmptyMasterRejected(t *testing.T) {
	_, err := NewDerivingProvider("")
	assert.Error(t, err)
}
