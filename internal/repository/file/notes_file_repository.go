package file

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"study-assistant-be/internal/repository/contract"
)

const LatestNotesFile = "latest_notes.txt"

type NotesFileRepository struct {
	dir string
	mu  sync.Mutex
}

var _ contract.NotesFileRepository = (*NotesFileRepository)(nil)

func NewNotesFileRepository(dir string) *NotesFileRepository {
	return &NotesFileRepository{dir: dir}
}

func (r *NotesFileRepository) path() string {
	return filepath.Join(r.dir, LatestNotesFile)
}

// Save overwrites the latest notes file, creating the directory if needed.
// The file is replaced through a rename so readers never see a partial write.
func (r *NotesFileRepository) Save(content string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(r.dir, LatestNotesFile+".*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	if err := os.Rename(tmp.Name(), r.path()); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return r.path(), nil
}

// LoadLatest returns "" when nothing was saved yet.
func (r *NotesFileRepository) LoadLatest() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path())
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), ""), nil
}
