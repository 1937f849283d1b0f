package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAndDelete(t *testing.T) {
	store := NewBlobStore(t.TempDir())

	ref, err := store.Put(7, "plan.png", strings.NewReader("content"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "maps/user_7/"))
	assert.True(t, strings.HasSuffix(ref, "_plan.png"))

	full := filepath.Join(store.RootPath, filepath.FromSlash(ref))
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	store.Delete(ref)
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))

	// 重复删除不报错
	store.Delete(ref)
	store.Delete("")
}

func TestPutUniqueReferences(t *testing.T) {
	store := NewBlobStore(t.TempDir())

	ref1, err := store.Put(1, "plan.png", strings.NewReader("a"))
	require.NoError(t, err)
	ref2, err := store.Put(1, "plan.png", strings.NewReader("b"))
	require.NoError(t, err)
	assert.NotEqual(t, ref1, ref2)
}

func TestPutRejectsBadFilename(t *testing.T) {
	store := NewBlobStore(t.TempDir())

	_, err := store.Put(1, "..", strings.NewReader("x"))
	assert.Error(t, err)

	// 路径部分被剥掉，只保留文件名
	ref, err := store.Put(1, "../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "maps/user_1/"))
	assert.True(t, strings.HasSuffix(ref, "_passwd"))
}

func TestDeleteOutsideRootIgnored(t *testing.T) {
	dir := t.TempDir()
	store := NewBlobStore(filepath.Join(dir, "root"))

	outside := filepath.Join(dir, "victim.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))

	store.Delete("../victim.txt")
	_, err := os.Stat(outside)
	assert.NoError(t, err)
}

func TestDeleteUserDir(t *testing.T) {
	store := NewBlobStore(t.TempDir())

	ref, err := store.Put(3, "a.png", strings.NewReader("a"))
	require.NoError(t, err)
	store.DeleteUserDir(3)

	_, statErr := os.Stat(filepath.Join(store.RootPath, filepath.FromSlash(ref)))
	assert.True(t, os.IsNotExist(statErr))
}
