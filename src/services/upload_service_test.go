package services

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/fiscalbr/backend/src/extractors"
	"github.com/username/fiscalbr/backend/src/logger"
	"github.com/username/fiscalbr/backend/src/models"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

type fakeStore struct {
	saved   map[string]models.FiscalFactRecord
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[string]models.FiscalFactRecord)}
}

func (f *fakeStore) SaveFact(documentID string, rec models.FiscalFactRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[documentID] = rec
	return nil
}

func (f *fakeStore) QueryFacts(taxpayerID string, from, to time.Time, types ...models.DocumentType) ([]models.FiscalFactRecord, error) {
	var out []models.FiscalFactRecord
	for _, rec := range f.saved {
		if rec.TaxpayerID != taxpayerID {
			continue
		}
		m, err := rec.CompetenceMonth()
		if err != nil || m.Before(from) || m.After(to) {
			continue
		}
		if len(types) > 0 {
			match := false
			for _, t := range types {
				if rec.DocumentType == t {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

const issUpload = `
CNPJ: 12.345.678/0001-90
Competência: 03/2025
Valor Total dos Serviços Prestados: R$ 50.000,00
ISS Próprio Devido: R$ 1.000,00
Quantidade de NFS-e emitidas: 42
`

func TestProcessDocument(t *testing.T) {
	store := newFakeStore()
	resultCache := cache.New(time.Minute, time.Minute)
	resultCache.Set("stale", "entry", cache.DefaultExpiration)
	svc := NewUploadService(store, resultCache)

	result, err := svc.ProcessDocument(strings.NewReader(issUpload), models.DocEncerramentoISS, extractors.MediumText)
	if err != nil {
		t.Fatalf("ProcessDocument() error: %v", err)
	}

	if result.DocumentID == "" {
		t.Error("DocumentID is empty")
	}
	saved, ok := store.saved[result.DocumentID]
	if !ok {
		t.Fatalf("record not persisted under %q", result.DocumentID)
	}
	if saved.CompetencePeriod != "03/2025" {
		t.Errorf("CompetencePeriod = %q, want 03/2025", saved.CompetencePeriod)
	}

	// A successful upload invalidates cached analytics results.
	if _, found := resultCache.Get("stale"); found {
		t.Error("cache was not flushed after upload")
	}
}

func TestProcessDocumentConfigurationErrorsPassThrough(t *testing.T) {
	svc := NewUploadService(newFakeStore(), cache.New(time.Minute, time.Minute))

	_, err := svc.ProcessDocument(strings.NewReader("x"), models.DocumentType("Recibo"), extractors.MediumText)
	if !errors.Is(err, extractors.ErrUnknownDocumentType) {
		t.Errorf("error = %v, want ErrUnknownDocumentType", err)
	}

	_, err = svc.ProcessDocument(strings.NewReader("x"), models.DocNFe, extractors.MediumText)
	if !errors.Is(err, extractors.ErrUnsupportedMedium) {
		t.Errorf("error = %v, want ErrUnsupportedMedium", err)
	}
}

func TestProcessDocumentExtractionFailure(t *testing.T) {
	svc := NewUploadService(newFakeStore(), cache.New(time.Minute, time.Minute))

	_, err := svc.ProcessDocument(strings.NewReader("<recibo/>"), models.DocNFe, extractors.MediumXML)
	if !errors.Is(err, ErrExtractionFailed) {
		t.Errorf("error = %v, want ErrExtractionFailed", err)
	}
}
