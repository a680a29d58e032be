// Copyright 2021 The stratx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package strategy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDKeys(t *testing.T) {
	k1, ok1 := UUIDKeys.NewKey()
	k2, ok2 := UUIDKeys.NewKey()
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.NotEqual(t, k1, k2)
	_, err := uuid.Parse(k1)
	assert.NoError(t, err)
	_, err = uuid.Parse(k2)
	assert.NoError(t, err)
}

func TestNoKeys(t *testing.T) {
	k, ok := NoKeys.NewKey()
	assert.False(t, ok)
	assert.Empty(t, k)
}

func TestStrategyKey(t *testing.T) {
	t.Run("Once has no key", func(t *testing.T) {
		k, ok := Once().Key(UUIDKeys)
		assert.False(t, ok)
		assert.Empty(t, k)
	})
	t.Run("Idempotent returns its key unchanged", func(t *testing.T) {
		k, ok := Idempotent("abc").Key(UUIDKeys)
		assert.True(t, ok)
		assert.Equal(t, "abc", k)
		k, ok = Idempotent("abc").Key(NoKeys)
		assert.True(t, ok)
		assert.Equal(t, "abc", k)
	})
	t.Run("Retry generates a key", func(t *testing.T) {
		k1, ok := Retry(3).Key(UUIDKeys)
		require.True(t, ok)
		k2, ok := Retry(3).Key(UUIDKeys)
		require.True(t, ok)
		assert.NotEqual(t, k1, k2)
		_, err := uuid.Parse(k1)
		assert.NoError(t, err)
	})
	t.Run("ExponentialBackoff generates a key", func(t *testing.T) {
		k, ok := ExponentialBackoff(3).Key(UUIDKeys)
		require.True(t, ok)
		_, err := uuid.Parse(k)
		assert.NoError(t, err)
	})
	t.Run("nil generator falls back to default", func(t *testing.T) {
		k, ok := Retry(3).Key(nil)
		require.True(t, ok)
		_, err := uuid.Parse(k)
		assert.NoError(t, err)
	})
	t.Run("generation disabled", func(t *testing.T) {
		k, ok := Retry(3).Key(NoKeys)
		assert.False(t, ok)
		assert.Empty(t, k)
		k, ok = ExponentialBackoff(3).Key(NoKeys)
		assert.False(t, ok)
		assert.Empty(t, k)
	})
}
