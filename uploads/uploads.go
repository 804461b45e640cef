package uploads

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// PublicPrefix is the URL path the uploads directory is served under.
const PublicPrefix = "/uploads"

// ErrNoFile means the multipart field was absent.
var ErrNoFile = errors.New("no file uploaded")

var unsafeChars = regexp.MustCompile(`[^\w\-.]`)

// Store saves uploaded images below Dir, one sub-folder per kind
// (items, categories, combos, qr...).
type Store struct {
	Dir string
	now func() time.Time
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir, now: time.Now}
}

// CleanName makes an uploaded filename safe to keep on disk.
func CleanName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	return unsafeChars.ReplaceAllString(name, "_")
}

// Save stores the multipart file in field under kind and returns its file
// name and public URL. ErrNoFile is returned when the field is missing.
func (s *Store) Save(c *gin.Context, field, kind string) (fileName, url string, err error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", "", ErrNoFile
		}
		return "", "", err
	}

	dir := filepath.Join(s.Dir, kind)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", "", fmt.Errorf("create upload folder: %w", err)
	}

	fileName = fmt.Sprintf("%d_%s", s.now().UnixNano(), CleanName(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(dir, fileName)); err != nil {
		return "", "", fmt.Errorf("save file: %w", err)
	}

	url = fmt.Sprintf("%s/%s/%s", PublicPrefix, kind, fileName)
	log.WithFields(log.Fields{"kind": kind, "file": fileName}).Info("📁 File uploaded")
	return fileName, url, nil
}

// Remove deletes the file behind a public URL produced by Save. Unknown or
// foreign URLs are ignored.
func (s *Store) Remove(url string) error {
	rel := strings.TrimPrefix(url, PublicPrefix+"/")
	if rel == url || rel == "" || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// OptionalImage saves the "image" field when one was sent. It writes the
// error response itself and reports false when the handler should stop.
func (s *Store) OptionalImage(c *gin.Context, kind string) (string, bool) {
	_, url, err := s.Save(c, "image", kind)
	switch {
	case errors.Is(err, ErrNoFile):
		return "", true
	case err != nil:
		log.WithError(err).WithField("kind", kind).Error("❌ Failed to save image")
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to save image: %v", err)})
		return "", false
	}
	return url, true
}
