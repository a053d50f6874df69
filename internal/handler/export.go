package handler

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/gitanalyzer/backend/internal/service"
)

type ExportHandler struct {
	service *service.ExportService
}

func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

func exportContentType(format string) string {
	if format == "json" {
		return "application/json"
	}
	return "text/markdown"
}

// Export 渲染结果包为指定格式并返回内容
func (h *ExportHandler) Export(c *gin.Context) {
	id := c.Param("id")
	format := c.Param("format")

	data, filename, err := h.service.Export(id, format)
	if err != nil {
		writeExportError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, exportContentType(format), data)
}

// Download 下载已导出的结果文件，未导出时现场生成
func (h *ExportHandler) Download(c *gin.Context) {
	id := c.Param("id")
	format := c.Param("format")

	path, err := h.service.ExportFile(id, format)
	if err != nil {
		writeExportError(c, err)
		return
	}

	c.FileAttachment(path, filepath.Base(path))
}

func writeExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
	case errors.Is(err, service.ErrNotReady):
		c.JSON(http.StatusBadRequest, gin.H{"error": "analysis is not completed yet"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
