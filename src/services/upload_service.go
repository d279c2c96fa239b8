package services

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/fiscalbr/backend/src/extractors"
	"github.com/username/fiscalbr/backend/src/logger"
	"github.com/username/fiscalbr/backend/src/models"
	"github.com/username/fiscalbr/backend/src/security/validation"
)

type uploadServiceImpl struct {
	store       FactStore
	reportCache *cache.Cache
}

// NewUploadService creates the upload pipeline. The cache is the shared
// analytics result cache; a successful upload invalidates it so subsequent
// KPI queries see the new facts.
func NewUploadService(store FactStore, reportCache *cache.Cache) UploadService {
	return &uploadServiceImpl{
		store:       store,
		reportCache: reportCache,
	}
}

func (s *uploadServiceImpl) ProcessDocument(fileReader io.Reader, docType models.DocumentType, medium extractors.Medium) (*UploadResult, error) {
	content, err := io.ReadAll(fileReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	if medium == extractors.MediumText {
		content = []byte(validation.StripUnprintable(string(content)))
	}

	rec, err := extractors.Dispatch(docType, medium, content)
	if err != nil {
		// Configuration errors (unknown type, wrong medium) pass through so
		// the handler can map them to 400; anything else is an extraction
		// failure.
		if errors.Is(err, extractors.ErrUnknownDocumentType) || errors.Is(err, extractors.ErrUnsupportedMedium) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	documentID := uuid.NewString()
	if err := s.store.SaveFact(documentID, rec); err != nil {
		return nil, fmt.Errorf("failed to persist extracted facts: %w", err)
	}

	// Stored facts changed, so every cached analytics result may be stale.
	s.reportCache.Flush()

	logger.L.Info("Document processed",
		"documentID", documentID,
		"documentType", string(docType),
		"taxpayerID", rec.TaxpayerID,
		"competence", rec.CompetencePeriod)

	return &UploadResult{DocumentID: documentID, Record: rec}, nil
}
