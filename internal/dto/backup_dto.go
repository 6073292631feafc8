package dto

// SyncPayload is the full client snapshot submitted to POST /backup/sync.
// Records arrive as raw maps because field spellings differ between client
// versions; the backup package normalizes them before any lookup.
type SyncPayload struct {
	Diaries     []map[string]any `json:"diaries"`
	Checklists  []map[string]any `json:"checklists"`
	Schedules   []map[string]any `json:"schedules"`
	AppUsages   []map[string]any `json:"appUsages"`
	Emotions    []map[string]any `json:"emotions"`
	Locations   []map[string]any `json:"locations"`
	Steps       []map[string]any `json:"steps"`
	AiFeedbacks []map[string]any `json:"aiFeedbacks"`
}

type SyncResponse struct {
	Success bool              `json:"success"`
	Synced  map[string]int    `json:"synced,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// PhotoFilePayload.Data is typed any on purpose: some clients have sent
// non-string values here and those must be skipped, not rejected with a 400.
type PhotoFilePayload struct {
	FileName    string `json:"fileName"`
	Data        any    `json:"data"`
	DiaryDate   string `json:"diaryDate"`
	DiaryUserID string `json:"diaryUserId"`
}

type PhotoSyncRequest struct {
	PhotoFiles []PhotoFilePayload `json:"photoFiles"`
}

type PhotoSyncResponse struct {
	Success     bool   `json:"success"`
	SyncedCount int    `json:"syncedCount"`
	TotalCount  int    `json:"totalCount"`
	Error       string `json:"error,omitempty"`
}

type RestoreResponse struct {
	Success    bool                        `json:"success"`
	Data       map[string][]map[string]any `json:"data,omitempty"`
	Message    string                      `json:"message,omitempty"`
	Statistics map[string]int              `json:"statistics,omitempty"`
	Error      string                      `json:"error,omitempty"`
}

type ClearResponse struct {
	Success       bool             `json:"success"`
	Message       string           `json:"message,omitempty"`
	DeletedCounts map[string]int64 `json:"deletedCounts,omitempty"`
	Error         string           `json:"error,omitempty"`
}
