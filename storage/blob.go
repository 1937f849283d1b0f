package storage

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore 本地磁盘文件存储，地图文件按 maps/user_<id>/ 归档
type BlobStore struct {
	RootPath string // 限制访问的根目录
}

func NewBlobStore(rootPath string) *BlobStore {
	absRoot, _ := filepath.Abs(rootPath)
	return &BlobStore{RootPath: absRoot}
}

// Put 保存文件并返回相对引用，文件名加UUID前缀避免重名覆盖
func (s *BlobStore) Put(ownerID uint, filename string, r io.Reader) (string, error) {
	base := filepath.Base(filename)
	if base == "." || base == ".." || base == "" {
		return "", errors.New("非法文件名")
	}
	ref := filepath.ToSlash(filepath.Join("maps", fmt.Sprintf("user_%d", ownerID), uuid.NewString()[:8]+"_"+base))
	full := filepath.Join(s.RootPath, filepath.FromSlash(ref))
	if !s.isPathSafe(full) {
		return "", os.ErrPermission
	}
	if err := os.MkdirAll(filepath.Dir(full), os.ModePerm); err != nil {
		return "", err
	}
	dst, err := os.Create(full)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, r); err != nil {
		return "", err
	}
	return ref, nil
}

// Delete 删除文件引用。尽力而为：失败只记日志，不影响调用方
func (s *BlobStore) Delete(ref string) {
	if ref == "" {
		return
	}
	full := filepath.Join(s.RootPath, filepath.FromSlash(ref))
	if !s.isPathSafe(full) {
		log.Printf("拒绝删除根目录之外的文件: %s", ref)
		return
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		log.Printf("删除文件失败: %s: %v", ref, err)
	}
}

// DeleteUserDir 删除用户的文件目录，账号注销时清理
func (s *BlobStore) DeleteUserDir(ownerID uint) {
	dir := filepath.Join(s.RootPath, "maps", fmt.Sprintf("user_%d", ownerID))
	if !s.isPathSafe(dir) {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		log.Printf("删除用户目录失败: %v", err)
	}
}

// isPathSafe 检查路径是否在根目录下（防止目录遍历攻击）
func (s *BlobStore) isPathSafe(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return abs == s.RootPath || strings.HasPrefix(abs, s.RootPath+string(os.PathSeparator))
}
