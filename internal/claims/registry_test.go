package claims

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ircbook/internal/common"
)

func TestCreate_RejectsPastExpiration(t *testing.T) {
	r := New()
	_, err := r.Create("x", time.Now().Add(-time.Hour), "desc", "owner")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidOrder)
}

func TestCreate_RejectsDuplicateName(t *testing.T) {
	r := New()
	_, err := r.Create("x", time.Now().Add(time.Hour), "desc", "owner")
	require.NoError(t, err)
	_, err = r.Create("x", time.Now().Add(time.Hour), "desc2", "owner")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestJudge_RequiresApproval(t *testing.T) {
	r := New()
	_, err := r.Create("x", time.Now().Add(time.Hour), "desc", "owner")
	require.NoError(t, err)

	_, err = r.Judge("x", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotApproved)
}

func TestJudge_RejectsDoubleResolve(t *testing.T) {
	r := New()
	_, err := r.Create("x", time.Now().Add(time.Hour), "desc", "owner")
	require.NoError(t, err)
	_, err = r.Approve("x")
	require.NoError(t, err)
	_, err = r.Judge("x", true)
	require.NoError(t, err)

	_, err = r.Judge("x", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestList_OnlyApprovedUnexpired(t *testing.T) {
	r := New()
	_, err := r.Create("open", time.Now().Add(time.Hour), "desc", "owner")
	require.NoError(t, err)
	_, err = r.Approve("open")
	require.NoError(t, err)

	_, err = r.Create("unapproved", time.Now().Add(time.Hour), "desc", "owner")
	require.NoError(t, err)

	list := r.List()
	require.Len(t, list, 1)
	assert.Equal(t, "open", list[0].Name)
}

func TestDumpLoad_RoundTrip(t *testing.T) {
	r := New()
	_, err := r.Create("x", time.Now().Add(24*time.Hour), "desc", "owner")
	require.NoError(t, err)
	_, err = r.Approve("x")
	require.NoError(t, err)
	_, err = r.Judge("x", true)
	require.NoError(t, err)

	restored, err := Load(r.Dump())
	require.NoError(t, err)

	c, err := restored.Get("x")
	require.NoError(t, err)
	assert.True(t, c.Resolved)
	assert.Equal(t, common.Yes, c.Result)
	assert.True(t, c.Approved)
}
