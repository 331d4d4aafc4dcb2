package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ircbook/internal/common"
)

func TestRegister_RejectsDuplicate(t *testing.T) {
	r := New()
	_, err := r.Register("u1", "nick")
	require.NoError(t, err)

	_, err = r.Register("u1", "other")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestConfirm_RecordsPromoterAndRejectsDouble(t *testing.T) {
	r := New()
	_, err := r.Register("u1", "nick")
	require.NoError(t, err)

	u, err := r.Confirm("u1", "owner")
	require.NoError(t, err)
	assert.True(t, u.Confirmed)
	assert.Equal(t, "owner", u.Promoter)

	_, err = r.Confirm("u1", "someone-else")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestGet_UnknownUser(t *testing.T) {
	r := New()
	_, err := r.Get("ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDumpLoad_RoundTrip(t *testing.T) {
	r := New()
	_, err := r.Register("u1", "nick")
	require.NoError(t, err)
	_, err = r.Confirm("u1", "owner")
	require.NoError(t, err)

	restored := Load(r.Dump())
	u, err := restored.Get("u1")
	require.NoError(t, err)
	assert.True(t, u.Confirmed)
	assert.Equal(t, "owner", u.Promoter)
	assert.Equal(t, "nick", u.Nick)
}
