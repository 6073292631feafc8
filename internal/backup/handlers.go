package backup

import (
	"errors"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/lifelogapp/lifelog-backend/internal/dto"
)

// Handler exposes the backup engine over HTTP. Soft failures (missing user,
// failed purge) come back as 200 with success:false — existing clients
// branch on the success flag, not the status code. Anything unexpected
// propagates to the fiber error handler and becomes a 500.
type Handler struct {
	sync    *SyncService
	photos  *PhotoService
	restore *RestoreService
	purge   *PurgeService
}

func NewHandler(sync *SyncService, photos *PhotoService, restore *RestoreService, purge *PurgeService) *Handler {
	return &Handler{sync: sync, photos: photos, restore: restore, purge: purge}
}

func (h *Handler) RegisterRoutes(router fiber.Router) {
	router.Post("/sync/:userId", h.Sync)
	router.Post("/sync-photos/:userId", h.SyncPhotos)
	router.Post("/restore/:userId", h.Restore)
	router.Delete("/clear/:userId", h.Clear)
	router.Get("/download-photo/:userId/:fileName", h.DownloadPhoto)
}

func (h *Handler) Sync(c *fiber.Ctx) error {
	var payload dto.SyncPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	summary, err := h.sync.SyncAll(c.Params("userId"), &payload)
	if err != nil {
		return c.JSON(dto.SyncResponse{Success: false, Error: err.Error()})
	}

	resp := dto.SyncResponse{Success: true, Synced: summary.Synced}
	if len(summary.Errors) > 0 {
		resp.Errors = summary.Errors
	}
	return c.JSON(resp)
}

func (h *Handler) SyncPhotos(c *fiber.Ctx) error {
	var req dto.PhotoSyncRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	res, err := h.photos.SyncPhotoChunk(c.Params("userId"), req.PhotoFiles)
	if err != nil {
		return c.JSON(dto.PhotoSyncResponse{Success: false, Error: err.Error()})
	}

	return c.JSON(dto.PhotoSyncResponse{
		Success:     true,
		SyncedCount: res.Synced,
		TotalCount:  res.Total,
	})
}

func (h *Handler) Restore(c *fiber.Ctx) error {
	res, err := h.restore.RestoreAll(c.Params("userId"))
	if err != nil {
		return c.JSON(dto.RestoreResponse{Success: false, Error: err.Error()})
	}

	return c.JSON(dto.RestoreResponse{
		Success:    true,
		Data:       res.Data,
		Message:    "Restore completed",
		Statistics: res.Statistics,
	})
}

func (h *Handler) Clear(c *fiber.Ctx) error {
	counts, err := h.purge.ClearAll(c.Params("userId"))
	if err != nil {
		return c.JSON(dto.ClearResponse{Success: false, Error: err.Error()})
	}

	return c.JSON(dto.ClearResponse{
		Success:       true,
		Message:       "All data cleared",
		DeletedCounts: counts,
	})
}

func (h *Handler) DownloadPhoto(c *fiber.Ctx) error {
	fileName := c.Params("fileName")
	path, err := h.photos.ResolvePhoto(c.Params("userId"), fileName)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrPhotoNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Photo not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read photo",
		})
	}

	f, err := os.Open(path)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read photo",
		})
	}

	c.Set(fiber.HeaderContentType, ContentTypeForPhoto(fileName))
	return c.SendStream(f)
}
