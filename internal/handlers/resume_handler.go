package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"resumatch/internal/models"
	"resumatch/internal/repositories"
	"resumatch/internal/services"
)

const defaultPageSize = 20

type ResumeHandler struct {
	resumeRepo     repositories.ResumeRepository
	storageService services.StorageService
	ingestService  services.IngestService
	maxFileSize    int64
	logger         *zap.Logger
}

func NewResumeHandler(
	resumeRepo repositories.ResumeRepository,
	storageService services.StorageService,
	ingestService services.IngestService,
	maxFileSize int64,
	logger *zap.Logger,
) *ResumeHandler {
	return &ResumeHandler{
		resumeRepo:     resumeRepo,
		storageService: storageService,
		ingestService:  ingestService,
		maxFileSize:    maxFileSize,
		logger:         logger,
	}
}

// HandleUpload handles POST /resumes/upload. Extraction runs inline so
// the response can report whether the document yielded any text.
func (h *ResumeHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing 'file' field in multipart form",
		})
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != services.ContentTypePDF && contentType != services.ContentTypeDOCX {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
			"error": fmt.Sprintf("unsupported content type %q, expected PDF or DOCX", contentType),
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": fmt.Sprintf("file too large, max size: %d bytes", h.maxFileSize),
		})
	}

	stored, err := h.storageService.SaveFile(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save file: %v", err),
		})
	}

	resume := models.Resume{
		ID:               uuid.New(),
		OriginalFilename: file.Filename,
		StoredPath:       stored.Path,
		ContentType:      contentType,
		SizeBytes:        stored.SizeBytes,
		SHA256:           stored.SHA256,
		CreatedAt:        time.Now(),
	}

	result := h.ingestService.Ingest(c.Context(), stored.Path, contentType)
	if result.Err != nil {
		msg := result.Err.Error()
		resume.ExtractionError = &msg
	} else {
		resume.RawText = &result.RawText
		resume.CleanedText = &result.CleanedText
		resume.RedactedText = &result.RedactedText
		resume.Sections = result.Sections
	}

	if err := h.resumeRepo.Create(&resume); err != nil {
		// Leave no orphaned file on disk.
		if delErr := h.storageService.DeleteFile(stored.StoredName); delErr != nil {
			h.logger.Warn("failed to delete orphaned upload",
				zap.String("stored_name", stored.StoredName),
				zap.Error(delErr),
			)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save resume record",
		})
	}

	status := "extracted"
	if resume.ExtractionError != nil {
		status = "failed"
	}
	return c.Status(fiber.StatusCreated).JSON(models.ResumeUploadResponse{
		ID:               resume.ID.String(),
		OriginalFilename: resume.OriginalFilename,
		ContentType:      resume.ContentType,
		SizeBytes:        resume.SizeBytes,
		SHA256:           resume.SHA256,
		ExtractionStatus: status,
		ExtractionError:  resume.ExtractionError,
		CreatedAt:        resume.CreatedAt,
	})
}

// HandleList handles GET /resumes with page/page_size query params.
func (h *ResumeHandler) HandleList(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := c.QueryInt("page_size", defaultPageSize)
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultPageSize
	}

	resumes, err := h.resumeRepo.List((page-1)*pageSize, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list resumes",
		})
	}
	total, err := h.resumeRepo.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to count resumes",
		})
	}

	items := make([]models.ResumeListItem, 0, len(resumes))
	for _, r := range resumes {
		items = append(items, models.ResumeListItem{
			ID:               r.ID.String(),
			OriginalFilename: r.OriginalFilename,
			ContentType:      r.ContentType,
			SizeBytes:        r.SizeBytes,
			ExtractionError:  r.ExtractionError,
			CreatedAt:        r.CreatedAt,
		})
	}

	return c.JSON(models.ResumeListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// HandleGet handles GET /resumes/:id.
func (h *ResumeHandler) HandleGet(c *fiber.Ctx) error {
	resumeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid resume ID format",
		})
	}

	resume, err := h.resumeRepo.FindByID(resumeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "resume not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to look up resume",
		})
	}

	return c.JSON(resume)
}
