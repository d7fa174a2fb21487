package assets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atithi/internal/core/apperror"
	"atithi/internal/core/id"
)

func TestAssetStatusTransitions(t *testing.T) {
	newActive := func() *AssetInstance {
		return NewAssetInstance(id.New(), id.New())
	}

	t.Run("active to under repair and back", func(t *testing.T) {
		a := newActive()
		require.NoError(t, a.MarkUnderRepair())
		assert.Equal(t, StatusUnderRepair, a.Status)
		require.NoError(t, a.MarkRepaired())
		assert.Equal(t, StatusActive, a.Status)
	})

	t.Run("retire is terminal", func(t *testing.T) {
		a := newActive()
		require.NoError(t, a.Retire("water damage"))
		assert.Equal(t, StatusWrittenOff, a.Status)
		assert.Nil(t, a.CurrentLocationID)
		require.NotNil(t, a.RetirementReason)
		assert.Equal(t, "water damage", *a.RetirementReason)

		err := a.MarkUnderRepair()
		assert.True(t, apperror.IsCode(err, apperror.CodeStateConflict))
		assert.Error(t, a.MoveTo(id.New()))
	})

	t.Run("retire from repair allowed", func(t *testing.T) {
		a := newActive()
		require.NoError(t, a.MarkUnderRepair())
		assert.NoError(t, a.Retire("beyond repair"))
	})

	t.Run("repaired only from repair", func(t *testing.T) {
		a := newActive()
		assert.Error(t, a.MarkRepaired())
	})
}

func TestAssetAssertAt(t *testing.T) {
	locA := id.New()
	locB := id.New()

	a := NewAssetInstance(id.New(), locA)
	assert.NoError(t, a.AssertAt(locA))

	err := a.AssertAt(locB)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeAssetNotAtSource))
}

func TestAssetValidate(t *testing.T) {
	ctx := context.Background()

	a := NewAssetInstance(id.New(), id.New())
	a.AssetTag = "AST-101-001"
	assert.NoError(t, a.Validate(ctx))

	// Active without a location is invalid.
	a.CurrentLocationID = nil
	assert.Error(t, a.Validate(ctx))

	// Written-off without a location is fine.
	a.Status = StatusWrittenOff
	assert.NoError(t, a.Validate(ctx))
}
