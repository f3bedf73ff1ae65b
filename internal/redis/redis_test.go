package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := New(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Set(context.Background(), "k", "v", 0).Err())
	v, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestNew_PingFailure(t *testing.T) {
	_, err := New(context.Background(), "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}

func TestNew_Password(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("secret")

	_, err := New(context.Background(), mr.Addr(), "wrong", 0)
	assert.Error(t, err)

	c, err := New(context.Background(), mr.Addr(), "secret", 0)
	require.NoError(t, err)
	_ = c.Close()
}
