package validation

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/username/fiscalbr/backend/src/logger"
)

// allowedContentTypesByMedium maps each upload medium to the client-declared
// MIME types accepted for it. PDFs arrive pre-converted to their text layer,
// so the "text" medium accepts plain text alongside the PDF type.
var allowedContentTypesByMedium = map[string]map[string]bool{
	"text": {
		"text/plain":               true,
		"application/pdf":          true,
		"application/octet-stream": true,
	},
	"tabular": {
		"text/csv":                 true,
		"application/csv":          true,
		"application/vnd.ms-excel": true, // Often used for CSV by older Excel
		"text/plain":               true,
		"application/octet-stream": true,
	},
	"xml": {
		"text/xml":                 true,
		"application/xml":          true,
		"application/octet-stream": true,
	},
}

// ValidateClientContentType checks the Content-Type header provided by the
// client against what the declared medium accepts.
func ValidateClientContentType(medium, contentType string) error {
	allowed, exists := allowedContentTypesByMedium[medium]
	if !exists {
		return fmt.Errorf("unknown upload medium '%s'", medium)
	}
	normalized := strings.ToLower(strings.Split(contentType, ";")[0])
	if !allowed[strings.TrimSpace(normalized)] {
		logger.L.Warn("Disallowed client-declared Content-Type", "contentType", contentType, "medium", medium)
		return fmt.Errorf("client-declared file type '%s' is not allowed for %s upload", contentType, medium)
	}
	return nil
}

// ValidateFileContentByMagicBytes checks the actual file content signature.
// It returns the detected content type and an error if the content does not
// look like the declared medium.
func ValidateFileContentByMagicBytes(file io.ReadSeeker, medium string) (string, error) {
	if file == nil {
		return "", fmt.Errorf("file is nil")
	}

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file for content type checking: %w", err)
	}

	// Reset the read pointer so the extractor can read the full file.
	if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
		return "", fmt.Errorf("failed to reset file read pointer: %w", seekErr)
	}

	head := buffer[:n]
	detectedContentType := http.DetectContentType(head)
	detectedContentType = strings.ToLower(strings.Split(detectedContentType, ";")[0])

	switch medium {
	case "xml":
		// http.DetectContentType reports "text/xml" only with an <?xml
		// declaration; NFe files sometimes omit it, so also accept content
		// that starts at a tag.
		if detectedContentType != "text/xml" && !bytes.HasPrefix(bytes.TrimLeft(head, " \t\r\n"), []byte("<")) {
			return detectedContentType, fmt.Errorf("detected file content type '%s' is not consistent with an XML document", detectedContentType)
		}
	case "text", "tabular":
		if bytes.HasPrefix(head, []byte("%PDF")) {
			break // raw PDF; the caller extracts the text layer
		}
		allowedDetectedTypes := map[string]bool{
			"text/plain":               true,
			"text/csv":                 true,
			"application/csv":          true,
			"application/octet-stream": true,
		}
		if !allowedDetectedTypes[detectedContentType] {
			logger.L.Warn("Disallowed detected file content type (magic bytes)", "detectedContentType", detectedContentType, "medium", medium)
			return detectedContentType, fmt.Errorf("detected file content type '%s' is not consistent with a %s upload", detectedContentType, medium)
		}
	default:
		return detectedContentType, fmt.Errorf("unknown upload medium '%s'", medium)
	}

	logger.L.Debug("File content type (magic bytes) validated", "detectedContentType", detectedContentType, "medium", medium)
	return detectedContentType, nil
}
