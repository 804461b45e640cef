package uploads

import (
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
)

// Backup copies srcDir into a timestamped folder under backupDir and prunes
// backups older than retention. It is run by the scheduler.
func Backup(srcDir, backupDir string, retention time.Duration) error {
	destDir := filepath.Join(backupDir, time.Now().Format("2006-01-02_15-04-05"))
	if err := copyDir(srcDir, destDir); err != nil {
		log.WithError(err).Error("❌ Failed to back up uploads")
		return err
	}
	log.WithField("dest", destDir).Info("✅ Uploads backed up")

	cleanupOldBackups(backupDir, retention)
	return nil
}

// copyDir recursively copies a folder
func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, destPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, destPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// cleanupOldBackups removes backup folders older than retention
func cleanupOldBackups(backupDir string, retention time.Duration) int {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		log.WithError(err).Error("❌ Failed to read backup directory")
		return 0
	}

	cutoff := time.Now().Add(-retention)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folderPath := filepath.Join(backupDir, entry.Name())
		info, err := os.Stat(folderPath)
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(folderPath); err != nil {
			log.WithError(err).WithField("path", folderPath).Error("❌ Failed to remove old backup")
			continue
		}
		removed++
		log.WithField("path", folderPath).Info("🗑️ Removed old backup")
	}
	return removed
}
