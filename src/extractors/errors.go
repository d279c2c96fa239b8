package extractors

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownDocumentType signals a document-type tag outside the closed
	// vocabulary. This is a caller configuration error, never skipped.
	ErrUnknownDocumentType = errors.New("unknown document type")

	// ErrUnsupportedMedium signals a document-type/medium combination the
	// dispatcher cannot serve (e.g. an NFe without XML content).
	ErrUnsupportedMedium = errors.New("unsupported content medium")

	// ErrInvalidStructure signals a document whose expected top-level
	// structure is entirely missing. Field-level misses never raise this;
	// only a structurally wrong document does.
	ErrInvalidStructure = errors.New("invalid document structure")
)

// StructureError identifies which extractor rejected a document and what it
// expected at the top level.
type StructureError struct {
	Extractor string
	Detail    string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s: %s", e.Extractor, e.Detail)
}

func (e *StructureError) Unwrap() error {
	return ErrInvalidStructure
}
