package backup

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lifelogapp/lifelog-backend/internal/dto"
	"github.com/lifelogapp/lifelog-backend/internal/models"
)

// ErrPhotoNotFound covers both an unreferenced filename and a missing file.
var ErrPhotoNotFound = errors.New("photo not found")

// minEncodedLen is the cheapest pre-decode sanity check: anything shorter
// cannot be a real photo and is skipped before base64 work.
const minEncodedLen = 100

// minDecodedLen rejects decoded buffers too small to be a usable image.
const minDecodedLen = 1000

// imageSignatures are the accepted magic-byte prefixes: JPEG, PNG, GIF and
// RIFF (WebP containers).
var imageSignatures = [][]byte{
	{0xFF, 0xD8, 0xFF},
	{0x89, 0x50, 0x4E, 0x47},
	{0x47, 0x49, 0x46, 0x38},
	{0x52, 0x49, 0x46, 0x46},
}

// ValidImageSignature reports whether buf starts with a known image format
// signature.
func ValidImageSignature(buf []byte) bool {
	for _, sig := range imageSignatures {
		if bytes.HasPrefix(buf, sig) {
			return true
		}
	}
	return false
}

// PhotoService decodes, validates and persists photo payloads, and links the
// stored filename into the owning diary's photoPaths set. Files are processed
// strictly sequentially so at most one decoded buffer is held in memory.
type PhotoService struct {
	db  *gorm.DB
	dir string
}

func NewPhotoService(db *gorm.DB, dir string) *PhotoService {
	return &PhotoService{db: db, dir: dir}
}

// PhotoSyncResult counts successes and tags every skip with its reason.
// Skips are silent on the wire by design; only the counts go back.
type PhotoSyncResult struct {
	Synced  int
	Total   int
	Skipped map[SkipReason]int
}

// SyncPhotoChunk ingests one batch of photo files. Every failure mode is a
// skip, never an error: a bad file must not block the rest of the chunk.
func (s *PhotoService) SyncPhotoChunk(clientID string, files []dto.PhotoFilePayload) (*PhotoSyncResult, error) {
	var user models.User
	if err := s.db.Where("client_id = ?", clientID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	res := &PhotoSyncResult{Total: len(files), Skipped: make(map[SkipReason]int)}
	for _, f := range files {
		reason, ok := s.ingestOne(&user, f)
		if !ok {
			res.Skipped[reason]++
			slog.Warn("photo skipped", "user_id", user.ID, "file", f.FileName, "reason", reason)
			continue
		}
		res.Synced++
	}
	return res, nil
}

func (s *PhotoService) ingestOne(user *models.User, f dto.PhotoFilePayload) (SkipReason, bool) {
	data, isString := f.Data.(string)
	if f.FileName == "" || f.DiaryDate == "" || !isString {
		return SkipMissingField, false
	}
	if len(data) < minEncodedLen {
		return SkipShortData, false
	}

	// Strip a data-URL prefix ("data:image/png;base64,....") if present.
	if idx := strings.Index(data, ","); idx >= 0 && strings.HasPrefix(data, "data:") {
		data = data[idx+1:]
	}

	buf, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return SkipDecodeFailed, false
	}
	if !ValidImageSignature(buf) {
		return SkipBadSignature, false
	}
	if len(buf) < minDecodedLen {
		return SkipTooSmall, false
	}

	date, ok := asDate(f.DiaryDate)
	if !ok {
		return SkipMissingField, false
	}

	// Photos for a date with no diary are dropped, not errored: clients
	// retry chunks and the diary may simply not have synced yet.
	var diary models.Diary
	if err := s.db.Where("user_id = ? AND entry_date = ?", user.ID, date).First(&diary).Error; err != nil {
		return SkipNoDiary, false
	}

	if err := s.writeFile(f.FileName, buf); err != nil {
		slog.Error("photo write failed", "file", f.FileName, "error", err)
		return SkipPersistence, false
	}

	if err := s.linkPhoto(&diary, f.FileName); err != nil {
		slog.Error("photo link failed", "file", f.FileName, "diary_id", diary.ID, "error", err)
		return SkipPersistence, false
	}

	return "", true
}

// writeFile persists the decoded buffer under the flat photo directory. A
// file with the same name and the same byte length counts as already synced
// and is not rewritten. This is a size comparison, not a content hash.
func (s *PhotoService) writeFile(fileName string, buf []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.dir, filepath.Base(fileName))
	if info, err := os.Stat(path); err == nil && info.Size() == int64(len(buf)) {
		return nil
	}
	return os.WriteFile(path, buf, 0o644)
}

// linkPhoto appends fileName to the diary's photoPaths set if not already
// present, preserving insertion order. Repeated ingestion of the same file
// leaves the set unchanged.
func (s *PhotoService) linkPhoto(diary *models.Diary, fileName string) error {
	paths := decodePhotoPaths(diary.PhotoPaths)
	for _, p := range paths {
		if p == fileName {
			return nil
		}
	}
	paths = append(paths, fileName)

	encoded, err := json.Marshal(paths)
	if err != nil {
		return err
	}
	return s.db.Model(diary).Updates(map[string]any{
		"photo_paths": datatypes.JSON(encoded),
		"updated_at":  time.Now().UTC(),
	}).Error
}

// ResolvePhoto maps (external userId, fileName) to a path on disk, but only
// when one of the user's diaries references that filename.
func (s *PhotoService) ResolvePhoto(clientID, fileName string) (string, error) {
	var user models.User
	if err := s.db.Where("client_id = ?", clientID).First(&user).Error; err != nil {
		return "", ErrUserNotFound
	}

	var diaries []models.Diary
	if err := s.db.Where("user_id = ?", user.ID).Find(&diaries).Error; err != nil {
		return "", err
	}

	name := filepath.Base(fileName)
	referenced := false
	for _, d := range diaries {
		for _, p := range decodePhotoPaths(d.PhotoPaths) {
			if p == name {
				referenced = true
				break
			}
		}
	}
	if !referenced {
		return "", ErrPhotoNotFound
	}

	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", ErrPhotoNotFound
		}
		return "", err
	}
	return path, nil
}

func decodePhotoPaths(raw datatypes.JSON) []string {
	var paths []string
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &paths)
	}
	if paths == nil {
		paths = []string{}
	}
	return paths
}

// ContentTypeForPhoto derives the download Content-Type from the file
// extension, defaulting to JPEG for anything unrecognized.
func ContentTypeForPhoto(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
