// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package resource

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/renameio"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DefaultEncoding is used when no encoding is configured
const DefaultEncoding = "utf-8"

// 📄 Resource is the text content of a target plus what is needed to write it back
type Resource struct {
	Path     string
	Content  string
	Mode     fs.FileMode
	Checksum string // sha256 of the raw bytes as read; Write refuses to replace different bytes
}

// ErrModified is the cause of a write refused because the file changed after it was read
var ErrModified = errors.Base("modified since read")

// 💾 Store reads and writes text resources
type Store interface {
	// Read loads the resource's current content
	Read(ctx context.Context, path string) (*Resource, error)

	// Write replaces the resource's content
	Write(ctx context.Context, res *Resource, content string) error
}

// ❌ ResourceAccessError reports a resource that is missing, unreadable or unwritable
type ResourceAccessError struct {
	Path string
	Op   string // "read" or "write"
	Err  error
}

func (e *ResourceAccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ResourceAccessError) Unwrap() error {
	return e.Err
}

// 🔧 FileStore is a Store backed by the local filesystem
type FileStore struct {
	name string
	enc  encoding.Encoding // nil for UTF-8
}

var _ Store = (*FileStore)(nil)

// 🏭 NewFileStore creates a file store decoding and encoding with the named encoding.
// Names follow the WHATWG encoding standard ("utf-8", "windows-1252", "shift_jis", ...).
func NewFileStore(encodingName string) (*FileStore, error) {
	name := strings.ToLower(strings.TrimSpace(encodingName))
	if name == "" {
		name = DefaultEncoding
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.Errorf("unknown encoding %q: %w", encodingName, err)
	}

	canonical, err := htmlindex.Name(enc)
	if err != nil {
		return nil, errors.Errorf("naming encoding %q: %w", encodingName, err)
	}

	fsys := &FileStore{name: canonical}
	if canonical != DefaultEncoding {
		fsys.enc = enc
	}
	return fsys, nil
}

// Encoding returns the canonical encoding name
func (s *FileStore) Encoding() string {
	return s.name
}

// 📖 Read loads path. The file handle is released on every return path.
func (s *FileStore) Read(ctx context.Context, path string) (*Resource, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Str("encoding", s.name).Msg("reading resource")

	f, err := os.Open(path)
	if err != nil {
		return nil, &ResourceAccessError{Path: path, Op: "read", Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &ResourceAccessError{Path: path, Op: "read", Err: err}
	}
	if info.IsDir() {
		return nil, &ResourceAccessError{Path: path, Op: "read", Err: errors.New("is a directory")}
	}

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, &ResourceAccessError{Path: path, Op: "read", Err: err}
	}

	content, err := s.decode(raw)
	if err != nil {
		return nil, &ResourceAccessError{Path: path, Op: "read", Err: err}
	}

	return &Resource{
		Path:     path,
		Content:  content,
		Mode:     info.Mode().Perm(),
		Checksum: checksumOf(raw),
	}, nil
}

// ✍️ Write replaces the content of res atomically. Symlinks are followed so the file they point
// at is updated and the link survives. A target that changed on disk since it was read, or that
// cannot be opened for writing, is reported instead of overwritten.
func (s *FileStore) Write(ctx context.Context, res *Resource, content string) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", res.Path).Int("bytes", len(content)).Msg("writing resource")

	path, err := filepath.EvalSymlinks(res.Path)
	if err != nil {
		return &ResourceAccessError{Path: res.Path, Op: "write", Err: err}
	}
	if path != res.Path {
		logger.Debug().Str("path", res.Path).Str("target", path).Msg("following symlink")
	}

	if err := checkWritable(path); err != nil {
		return &ResourceAccessError{Path: res.Path, Op: "write", Err: err}
	}

	if res.Checksum != "" {
		if err := unchangedSince(path, res.Checksum); err != nil {
			return &ResourceAccessError{Path: res.Path, Op: "write", Err: err}
		}
	}

	raw, err := s.encode(content)
	if err != nil {
		return &ResourceAccessError{Path: res.Path, Op: "write", Err: err}
	}

	if err := writeAtomic(path, raw, res.Mode); err != nil {
		return &ResourceAccessError{Path: res.Path, Op: "write", Err: err}
	}
	return nil
}

func checkWritable(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	return f.Close()
}

func unchangedSince(path, checksum string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if checksumOf(raw) != checksum {
		return errors.WithStack(ErrModified)
	}
	return nil
}

func checksumOf(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func writeAtomic(path string, raw []byte, mode fs.FileMode) error {
	pending, err := renameio.TempFile(filepath.Dir(path), path)
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	defer pending.Cleanup()

	if _, err := pending.Write(raw); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}
	if mode != 0 {
		if err := pending.Chmod(mode); err != nil {
			return errors.Errorf("setting mode: %w", err)
		}
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return errors.Errorf("replacing file: %w", err)
	}
	return nil
}

func (s *FileStore) decode(raw []byte) (string, error) {
	if s.enc == nil {
		if !utf8.Valid(raw) {
			return "", errors.New("content is not valid utf-8")
		}
		return string(raw), nil
	}

	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), s.enc.NewDecoder()))
	if err != nil {
		return "", errors.Errorf("decoding %s: %w", s.name, err)
	}
	return string(out), nil
}

func (s *FileStore) encode(content string) ([]byte, error) {
	if s.enc == nil {
		return []byte(content), nil
	}

	out, _, err := transform.Bytes(s.enc.NewEncoder(), []byte(content))
	if err != nil {
		return nil, errors.Errorf("encoding %s: %w", s.name, err)
	}
	return out, nil
}
