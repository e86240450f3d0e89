package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/hupe1980/seahash/codec"
	"github.com/hupe1980/seahash/internal/fs"
)

const (
	fileMagic   = "seahash-ledger"
	fileVersion = 1
)

type document struct {
	Entries []Entry `json:"entries"`
}

// FileStore keeps all entries in one file.
//
// The file starts with a header line naming the format version and codec,
// followed by the codec-encoded entries. Every write rewrites the file
// through a temporary file and a rename.
type FileStore struct {
	path  string
	fsys  fs.FileSystem
	codec codec.Codec

	mu      sync.RWMutex
	entries map[string]Entry
}

var _ Store = (*FileStore)(nil)

// FileOption configures OpenFile.
type FileOption func(*FileStore)

// WithCodec sets the codec for newly created files. Existing files keep
// the codec named in their header.
func WithCodec(c codec.Codec) FileOption {
	return func(s *FileStore) { s.codec = c }
}

// WithFileSystem replaces the file system, for tests.
func WithFileSystem(fsys fs.FileSystem) FileOption {
	return func(s *FileStore) { s.fsys = fsys }
}

// OpenFile loads the ledger at path. A missing file yields an empty ledger
// that is created on the first write.
func OpenFile(path string, optFns ...FileOption) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		fsys:    fs.Default,
		codec:   codec.Default,
		entries: make(map[string]Entry),
	}
	for _, fn := range optFns {
		fn(s)
	}

	data, err := fs.ReadFile(s.fsys, path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.decode(data); err != nil {
		return nil, fmt.Errorf("ledger: %s: %w", path, err)
	}
	return s, nil
}

func (s *FileStore) decode(data []byte) error {
	header, body, ok := bytes.Cut(data, []byte("\n"))
	if !ok {
		return errors.New("missing header")
	}

	var (
		magic, name string
		version     int
	)
	if _, err := fmt.Sscanf(string(header), "%s v%d %s", &magic, &version, &name); err != nil || magic != fileMagic {
		return fmt.Errorf("bad header %q", header)
	}
	if version != fileVersion {
		return fmt.Errorf("unsupported version %d (expected %d)", version, fileVersion)
	}
	c, ok := codec.ByName(name)
	if !ok {
		return fmt.Errorf("unknown codec %q", name)
	}

	var doc document
	if err := c.Unmarshal(body, &doc); err != nil {
		return err
	}
	for _, e := range doc.Entries {
		s.entries[e.Name] = e
	}
	s.codec = c
	return nil
}

// save writes the current entries. Callers hold s.mu.
func (s *FileStore) save() error {
	doc := document{Entries: s.sorted()}
	body, err := s.codec.Marshal(doc)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s v%d %s\n", fileMagic, fileVersion, s.codec.Name())
	buf.Write(body)
	if !bytes.HasSuffix(body, []byte("\n")) {
		buf.WriteByte('\n')
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fsys.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return fs.WriteFileAtomic(s.fsys, s.path, buf.Bytes(), 0o644)
}

func (s *FileStore) sorted() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i].Name, out[j].Name) < 0 })
	return out
}

func (s *FileStore) put(e Entry, ifAbsent bool) error {
	if err := e.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, exists := s.entries[e.Name]
	if exists && ifAbsent {
		return fmt.Errorf("%w: %s", ErrConflict, e.Name)
	}
	s.entries[e.Name] = e
	if err := s.save(); err != nil {
		if exists {
			s.entries[e.Name] = old
		} else {
			delete(s.entries, e.Name)
		}
		return err
	}
	return nil
}

// Put implements Store.
func (s *FileStore) Put(_ context.Context, e Entry) error {
	return s.put(e, false)
}

// PutIfAbsent implements Store.
func (s *FileStore) PutIfAbsent(_ context.Context, e Entry) error {
	return s.put(e, true)
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, name string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return e, nil
}

// List implements Store.
func (s *FileStore) List(_ context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(), nil
}

// Path returns the ledger file path.
func (s *FileStore) Path() string { return s.path }
