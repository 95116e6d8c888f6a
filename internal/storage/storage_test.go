package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/luckyboost/internal/config"
)

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "luckyBoostState")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, kv.Set(ctx, "luckyBoostState", `{"currentProgress":"15"}`))
	v, ok, err := kv.Get(ctx, "luckyBoostState")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"currentProgress":"15"}`, v)

	require.NoError(t, kv.Set(ctx, "luckyBoostState", `{}`))
	v, _, err = kv.Get(ctx, "luckyBoostState")
	require.NoError(t, err)
	require.Equal(t, `{}`, v)

	require.NoError(t, kv.Close())
}

func TestMemory(t *testing.T) {
	exerciseKV(t, NewMemory())
}

func TestFile(t *testing.T) {
	kv, err := NewFile(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)
	exerciseKV(t, kv)
}

func TestFileRejectsPathKeys(t *testing.T) {
	kv, err := NewFile(t.TempDir())
	require.NoError(t, err)
	require.Error(t, kv.Set(context.Background(), "../escape", "x"))
	_, _, err = kv.Get(context.Background(), "a/b")
	require.Error(t, err)
}

func TestSQLite(t *testing.T) {
	kv, err := NewSQLite(filepath.Join(t.TempDir(), "lb.db"), zerolog.Nop())
	require.NoError(t, err)
	exerciseKV(t, kv)
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lb.db")
	kv, err := NewSQLite(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), "gachaGameState", `{"packsOpened":3}`))
	require.NoError(t, kv.Close())

	kv, err = NewSQLite(path, zerolog.Nop())
	require.NoError(t, err)
	defer kv.Close()
	v, ok, err := kv.Get(context.Background(), "gachaGameState")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"packsOpened":3}`, v)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	kv, err := Open(ctx, config.StorageConfig{Driver: "memory"}, zerolog.Nop())
	require.NoError(t, err)
	require.IsType(t, &Memory{}, kv)

	kv, err = Open(ctx, config.StorageConfig{Driver: "file", Path: t.TempDir()}, zerolog.Nop())
	require.NoError(t, err)
	require.IsType(t, &File{}, kv)

	_, err = Open(ctx, config.StorageConfig{Driver: "floppy"}, zerolog.Nop())
	require.True(t, errors.Is(err, ErrUnknownDriver))

	_, err = Open(ctx, config.StorageConfig{Driver: "postgres"}, zerolog.Nop())
	require.Error(t, err)
}
