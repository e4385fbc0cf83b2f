package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"nid-extraction-service/internal/ai"
	"nid-extraction-service/internal/logger"
	"nid-extraction-service/models"
)

// Stage errors. Every pipeline failure wraps exactly one of these so the HTTP
// layer can map it to a status code without inspecting message text.
var (
	ErrUploadRead   = errors.New("failed to read uploaded file")
	ErrStorageWrite = errors.New("failed to store document image")
	ErrExtraction   = errors.New("model extraction failed")
	ErrParse        = errors.New("failed to parse model response")
	ErrPersistence  = errors.New("failed to persist document")
	ErrNotification = errors.New("failed to send missing-data notification")
)

// SequenceAllocator hands out the next document id.
type SequenceAllocator interface {
	NextID(ctx context.Context) (int64, error)
}

// Uploader stores raw image bytes under a name and returns a retrievable URL.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// Extractor calls the generative model and returns its raw text reply.
type Extractor interface {
	Extract(ctx context.Context, imageData []byte, mimeType string) (string, error)
}

// DocumentCreator inserts a new extracted document.
type DocumentCreator interface {
	Create(ctx context.Context, doc *models.ExtractedDocument) error
}

// Notifier alerts the operator about sentinel-valued fields.
type Notifier interface {
	NotifyMissing(missing map[string]string, id int64) error
}

// ExtractionService runs the document pipeline: allocate id, upload image,
// call the model, parse its reply, persist, notify. One best-effort pass per
// request; a failing step short-circuits and nothing already done is undone.
type ExtractionService struct {
	allocator SequenceAllocator
	uploader  Uploader
	extractor Extractor
	documents DocumentCreator
	notifier  Notifier
}

func NewExtractionService(allocator SequenceAllocator, uploader Uploader, extractor Extractor, documents DocumentCreator, notifier Notifier) *ExtractionService {
	return &ExtractionService{
		allocator: allocator,
		uploader:  uploader,
		extractor: extractor,
		documents: documents,
		notifier:  notifier,
	}
}

// Process handles one uploaded document image end to end and returns the
// created document. An already-uploaded blob is deliberately left in place
// when a later step fails.
func (s *ExtractionService) Process(ctx context.Context, data []byte, contentType string) (*models.ExtractedDocument, error) {
	tracer := otel.Tracer("extraction-service")
	ctx, span := tracer.Start(ctx, "pipeline.process")
	defer span.End()

	id, err := s.allocator.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	span.SetAttributes(attribute.Int64("document.id", id))

	url, err := s.uploader.Upload(ctx, strconv.FormatInt(id, 10), data, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	raw, err := s.extractor.Extract(ctx, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	parsed, err := ai.ParseFields(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	fields := models.NormalizeFields(parsed)
	doc := &models.ExtractedDocument{
		ID:            id,
		ExtractedData: fields,
		ImageURL:      url,
		Status:        models.DeriveStatus(fields),
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	missing := models.MissingFields(fields)
	span.SetAttributes(
		attribute.String("document.status", doc.Status),
		attribute.Int("document.missing_fields", len(missing)),
	)

	if len(missing) > 0 {
		logger.Warn("Document extracted with missing fields", "document_id", id, "missing", len(missing))
		if err := s.notifier.NotifyMissing(missing, id); err != nil {
			// The document is already persisted; surface the failure without
			// undoing the insert.
			return nil, fmt.Errorf("%w: %v", ErrNotification, err)
		}
	}

	logger.Info("Document processed", "document_id", id, "status", doc.Status)
	return doc, nil
}
