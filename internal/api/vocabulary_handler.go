package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devinpereira/Flexin/internal/engine"
	"github.com/devinpereira/Flexin/internal/storage"
)

// VocabularyHandler publishes the categorical encoding so the model pipeline can check it is in sync.
type VocabularyHandler struct {
	vocab       engine.Vocabulary
	fingerprint string
	store       storage.FileStorage // optional, serves the published artifact
	objectKey   string
}

func NewVocabularyHandler(vocab engine.Vocabulary, store storage.FileStorage, objectKey string) *VocabularyHandler {
	return &VocabularyHandler{
		vocab:       vocab,
		fingerprint: vocab.Fingerprint(),
		store:       store,
		objectKey:   objectKey,
	}
}

type VocabularyResponse struct {
	engine.Vocabulary
	Fingerprint string `json:"fingerprint"`
}

// GetVocabulary GET /api/v1/vocabulary
func (h *VocabularyHandler) GetVocabulary(c *gin.Context) {
	c.Header("ETag", `"`+h.fingerprint+`"`)
	if match := c.GetHeader("If-None-Match"); match == `"`+h.fingerprint+`"` {
		c.Status(http.StatusNotModified)
		return
	}
	c.JSON(http.StatusOK, VocabularyResponse{Vocabulary: h.vocab, Fingerprint: h.fingerprint})
}

// GetVocabularyArtifact redirects to a presigned URL of the published artifact.
// GET /api/v1/vocabulary/artifact
func (h *VocabularyHandler) GetVocabularyArtifact(c *gin.Context) {
	if h.store == nil || h.objectKey == "" {
		abortWithError(c, http.StatusNotFound, "Vocabulary artifact storage is not configured.")
		return
	}
	url, err := h.store.GeneratePresignedDownloadURL(c.Request.Context(), h.objectKey, 0)
	if err != nil {
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "Failed to generate download URL.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "version": h.vocab.Version, "fingerprint": h.fingerprint})
}
