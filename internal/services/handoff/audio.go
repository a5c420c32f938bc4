package handoff

import (
	"os"
	"path/filepath"
	"strings"
)

// sharedFiles resolves audio references against the shared directory
type sharedFiles struct {
	dir string
}

func (s sharedFiles) SharedDir() string {
	return s.dir
}

// AudioFilePath only honours the base name so references cannot escape the directory
func (s sharedFiles) AudioFilePath(fileName string) string {
	return filepath.Join(s.dir, filepath.Base(strings.TrimSpace(fileName)))
}

func (s sharedFiles) AudioFileExists(fileName string) bool {
	if strings.TrimSpace(fileName) == "" {
		return false
	}
	info, err := os.Stat(s.AudioFilePath(fileName))
	return err == nil && info.Mode().IsRegular()
}

func (s sharedFiles) removeAudio(fileName *string) error {
	if fileName == nil || strings.TrimSpace(*fileName) == "" {
		return nil
	}
	if err := os.Remove(s.AudioFilePath(*fileName)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
