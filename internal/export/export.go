// Package export writes export payloads through the save-file boundary.
package export

import (
	"os"
	"path/filepath"
)

// DirSaver implements domain.FileSaver by writing into a fixed directory
// under the suggested default filename. It stands in for a native save
// dialog in the terminal build; an empty directory means the user opted
// out of exports, which reads as cancellation.
type DirSaver struct {
	Dir string
}

func (s DirSaver) Save(defaultName string, payload []byte) (bool, error) {
	if s.Dir == "" {
		return false, nil
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return false, err
	}
	path := filepath.Join(s.Dir, defaultName)
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return false, err
	}
	return true, nil
}
