package backup

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifelogapp/lifelog-backend/internal/dto"
	"github.com/lifelogapp/lifelog-backend/internal/models"
)

// fakeImage builds a buffer with the given signature padded to size bytes.
func fakeImage(sig []byte, size int) []byte {
	buf := make([]byte, size)
	copy(buf, sig)
	return buf
}

var jpegSig = []byte{0xFF, 0xD8, 0xFF}

func TestValidImageSignature(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want bool
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, true},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47}, true},
		{"gif", []byte{0x47, 0x49, 0x46, 0x38}, true},
		{"riff webp", []byte{0x52, 0x49, 0x46, 0x46}, true},
		{"zip", []byte{0x50, 0x4B, 0x03, 0x04}, false},
		{"text", []byte("AAAA"), false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidImageSignature(tt.head))
		})
	}
}

func setupPhotoTest(t *testing.T) (*PhotoService, *SyncService, string) {
	t.Helper()
	db := newTestDB(t)
	dir := t.TempDir()
	sync := NewSyncService(db)
	return NewPhotoService(db, dir), sync, dir
}

func syncDiaryFor(t *testing.T, sync *SyncService, clientID, date string) {
	t.Helper()
	_, err := sync.SyncAll(clientID, &dto.SyncPayload{Diaries: []map[string]any{
		{"date": date, "title": "entry"},
	}})
	require.NoError(t, err)
}

func TestSyncPhotoChunkHappyPath(t *testing.T) {
	photos, sync, dir := setupPhotoTest(t)
	syncDiaryFor(t, sync, "u1", "2024-05-01")

	img := fakeImage(jpegSig, 2048)
	files := []dto.PhotoFilePayload{{
		FileName:  "pic1.jpg",
		Data:      base64.StdEncoding.EncodeToString(img),
		DiaryDate: "2024-05-01",
	}}

	res, err := photos.SyncPhotoChunk("u1", files)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Synced)
	assert.Equal(t, 1, res.Total)

	written, err := os.ReadFile(filepath.Join(dir, "pic1.jpg"))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(img, written))

	var diary models.Diary
	require.NoError(t, sync.db.First(&diary).Error)
	assert.Equal(t, []string{"pic1.jpg"}, decodePhotoPaths(diary.PhotoPaths))

	// Replaying the chunk is idempotent: same file, same single link.
	res, err = photos.SyncPhotoChunk("u1", files)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Synced)

	require.NoError(t, sync.db.First(&diary).Error)
	assert.Equal(t, []string{"pic1.jpg"}, decodePhotoPaths(diary.PhotoPaths))
}

func TestSyncPhotoChunkDataURLPrefix(t *testing.T) {
	photos, sync, dir := setupPhotoTest(t)
	syncDiaryFor(t, sync, "u1", "2024-05-01")

	img := fakeImage(jpegSig, 2048)
	res, err := photos.SyncPhotoChunk("u1", []dto.PhotoFilePayload{{
		FileName:  "pic2.jpg",
		Data:      "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img),
		DiaryDate: "2024-05-01",
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Synced)

	_, statErr := os.Stat(filepath.Join(dir, "pic2.jpg"))
	assert.NoError(t, statErr)
}

func TestSyncPhotoChunkShortDataRejected(t *testing.T) {
	photos, sync, dir := setupPhotoTest(t)
	syncDiaryFor(t, sync, "u1", "2024-05-01")

	res, err := photos.SyncPhotoChunk("u1", []dto.PhotoFilePayload{{
		FileName:  "tiny.jpg",
		Data:      "dG9vc2hvcnQ=",
		DiaryDate: "2024-05-01",
	}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Synced)
	assert.Equal(t, 1, res.Skipped[SkipShortData])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no file may be written for a rejected payload")
}

func TestSyncPhotoChunkSkipsInvalidPayloads(t *testing.T) {
	photos, sync, _ := setupPhotoTest(t)
	syncDiaryFor(t, sync, "u1", "2024-05-01")

	valid := base64.StdEncoding.EncodeToString(fakeImage(jpegSig, 2048))
	tests := []struct {
		name   string
		file   dto.PhotoFilePayload
		reason SkipReason
	}{
		{
			"missing file name",
			dto.PhotoFilePayload{Data: valid, DiaryDate: "2024-05-01"},
			SkipMissingField,
		},
		{
			"missing diary date",
			dto.PhotoFilePayload{FileName: "a.jpg", Data: valid},
			SkipMissingField,
		},
		{
			"non-string data",
			dto.PhotoFilePayload{FileName: "a.jpg", Data: float64(42), DiaryDate: "2024-05-01"},
			SkipMissingField,
		},
		{
			"undecodable base64",
			dto.PhotoFilePayload{FileName: "a.jpg", Data: strings120("!!!!"), DiaryDate: "2024-05-01"},
			SkipDecodeFailed,
		},
		{
			"wrong signature",
			dto.PhotoFilePayload{
				FileName:  "a.jpg",
				Data:      base64.StdEncoding.EncodeToString(fakeImage([]byte("TEXT"), 2048)),
				DiaryDate: "2024-05-01",
			},
			SkipBadSignature,
		},
		{
			"decoded too small",
			dto.PhotoFilePayload{
				FileName:  "a.jpg",
				Data:      base64.StdEncoding.EncodeToString(fakeImage(jpegSig, 500)),
				DiaryDate: "2024-05-01",
			},
			SkipTooSmall,
		},
		{
			"no matching diary",
			dto.PhotoFilePayload{FileName: "a.jpg", Data: valid, DiaryDate: "1999-01-01"},
			SkipNoDiary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := photos.SyncPhotoChunk("u1", []dto.PhotoFilePayload{tt.file})
			require.NoError(t, err)
			assert.Equal(t, 0, res.Synced)
			assert.Equal(t, 1, res.Skipped[tt.reason])
		})
	}
}

// strings120 repeats s until the result passes the minimum-length gate, so
// the test exercises the decode step rather than the length check.
func strings120(s string) string {
	out := s
	for len(out) < 120 {
		out += s
	}
	return out
}

func TestSyncPhotoChunkUserNotFound(t *testing.T) {
	photos, _, _ := setupPhotoTest(t)

	_, err := photos.SyncPhotoChunk("ghost", nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestResolvePhoto(t *testing.T) {
	photos, sync, dir := setupPhotoTest(t)
	syncDiaryFor(t, sync, "u1", "2024-05-01")

	img := fakeImage(jpegSig, 2048)
	_, err := photos.SyncPhotoChunk("u1", []dto.PhotoFilePayload{{
		FileName:  "linked.jpg",
		Data:      base64.StdEncoding.EncodeToString(img),
		DiaryDate: "2024-05-01",
	}})
	require.NoError(t, err)

	path, err := photos.ResolvePhoto("u1", "linked.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "linked.jpg"), path)

	// Unreferenced filename: not found even if the file exists on disk.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.jpg"), img, 0o644))
	_, err = photos.ResolvePhoto("u1", "stray.jpg")
	assert.ErrorIs(t, err, ErrPhotoNotFound)

	// Referenced but deleted from disk.
	require.NoError(t, os.Remove(path))
	_, err = photos.ResolvePhoto("u1", "linked.jpg")
	assert.ErrorIs(t, err, ErrPhotoNotFound)
}

func TestContentTypeForPhoto(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentTypeForPhoto("a.jpg"))
	assert.Equal(t, "image/jpeg", ContentTypeForPhoto("a.JPEG"))
	assert.Equal(t, "image/png", ContentTypeForPhoto("a.png"))
	assert.Equal(t, "image/gif", ContentTypeForPhoto("a.gif"))
	assert.Equal(t, "image/webp", ContentTypeForPhoto("a.webp"))
	assert.Equal(t, "image/jpeg", ContentTypeForPhoto("mystery.bin"))
}
