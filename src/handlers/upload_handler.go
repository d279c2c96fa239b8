package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/username/fiscalbr/backend/src/config"
	"github.com/username/fiscalbr/backend/src/extractors"
	"github.com/username/fiscalbr/backend/src/logger"
	"github.com/username/fiscalbr/backend/src/models"
	"github.com/username/fiscalbr/backend/src/security/validation"
	"github.com/username/fiscalbr/backend/src/services"
	"github.com/username/fiscalbr/backend/src/utils"
)

type UploadHandler struct {
	uploadService services.UploadService
}

func NewUploadHandler(service services.UploadService) *UploadHandler {
	return &UploadHandler{
		uploadService: service,
	}
}

// HandleUpload accepts one fiscal document as multipart form data. The form
// carries the file plus two declarations the client must make: document_type
// (one of the supported fiscal document names) and medium (text, tabular or
// xml).
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	docType := models.DocumentType(r.FormValue("document_type"))
	if !slices.Contains(models.AllDocumentTypes, docType) {
		utils.SendJSONError(w, fmt.Sprintf("unknown document_type %q", docType), http.StatusBadRequest)
		return
	}

	medium := r.FormValue("medium")
	switch extractors.Medium(medium) {
	case extractors.MediumText, extractors.MediumTabular, extractors.MediumXML:
	default:
		utils.SendJSONError(w, fmt.Sprintf("medium must be one of text, tabular, xml; got %q", medium), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		logger.L.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		logger.L.Warn("Uploaded file header reports size too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(medium, clientContentType); err != nil {
		logger.L.Warn("Invalid client-declared file type", "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file, medium)
	if err != nil {
		logger.L.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	logger.L.Info("Processing upload request",
		"filename", fileHeader.Filename,
		"documentType", string(docType),
		"medium", medium,
		"detectedType", detectedContentType)

	result, err := h.uploadService.ProcessDocument(file, docType, extractors.Medium(medium))
	if err != nil {
		switch {
		case errors.Is(err, extractors.ErrUnknownDocumentType), errors.Is(err, extractors.ErrUnsupportedMedium):
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrExtractionFailed), errors.Is(err, extractors.ErrInvalidStructure):
			logger.L.Warn("Upload processing failed during extraction", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Error extracting document data: %v", err), http.StatusBadRequest)
		default:
			logger.L.Error("Internal error processing upload", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, "An internal error occurred while processing the file. Please try again later.", http.StatusInternalServerError)
		}
		return
	}

	utils.SendJSON(w, result, http.StatusOK)
}
