package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityMetadata_ValueAndScanRoundTrip(t *testing.T) {
	src := ActivityMetadata{"section_id": "42", "role": "editor"}

	raw, err := src.Value()
	require.NoError(t, err)

	var dst ActivityMetadata
	require.NoError(t, dst.Scan(raw))
	assert.Equal(t, src, dst)
}

func TestActivityMetadata_EmptyStoredAsNull(t *testing.T) {
	raw, err := ActivityMetadata(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, raw)

	raw, err = ActivityMetadata{}.Value()
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestActivityMetadata_ScanNullClears(t *testing.T) {
	dst := ActivityMetadata{"stale": "value"}
	require.NoError(t, dst.Scan(nil))
	assert.Nil(t, dst)
}

func TestActivityMetadata_ScanString(t *testing.T) {
	var dst ActivityMetadata
	require.NoError(t, dst.Scan(`{"added_user_id":"abc"}`))
	assert.Equal(t, "abc", dst["added_user_id"])
}

func TestActivityMetadata_ScanUnexpectedType(t *testing.T) {
	var dst ActivityMetadata
	assert.Error(t, dst.Scan(42))
}
