package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/notekeep/backend/docs"
)

type openAPIDocument struct {
	body []byte
	etag string
}

var loadOpenAPIDocument = sync.OnceValue(func() openAPIDocument {
	body := []byte(docs.SwaggerInfo.ReadDoc())
	sum := sha256.Sum256(body)
	return openAPIDocument{body: body, etag: `"` + hex.EncodeToString(sum[:8]) + `"`}
})

// OpenAPIDoc serves the API document, rendered once per process.
func OpenAPIDoc(c *gin.Context) {
	doc := loadOpenAPIDocument()
	c.Header("ETag", doc.etag)
	c.Header("Cache-Control", "public, max-age=300")
	if c.GetHeader("If-None-Match") == doc.etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", doc.body)
}
