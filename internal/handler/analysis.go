package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gitanalyzer/backend/internal/service"
	"github.com/gitanalyzer/backend/internal/service/dispatcher"
	"k8s.io/klog/v2"
)

type AnalysisHandler struct {
	service    *service.AnalysisService
	dispatcher *dispatcher.Dispatcher
}

func NewAnalysisHandler(svc *service.AnalysisService, disp *dispatcher.Dispatcher) *AnalysisHandler {
	return &AnalysisHandler{
		service:    svc,
		dispatcher: disp,
	}
}

// Create 提交一次仓库分析，立即返回作业标识，分析在后台执行
func (h *AnalysisHandler) Create(c *gin.Context) {
	var req service.CreateAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.dispatcher.EnqueueJob(dispatcher.NewJob(job.AnalysisID)); err != nil {
		klog.Errorf("作业入队失败: analysisID=%s, error=%v", job.AnalysisID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analysis_id": job.AnalysisID,
		"status":      job.Status,
		"created_at":  job.CreatedAt,
		"message":     "Analysis started",
	})
}

// GetStatus 查询作业状态与进度
func (h *AnalysisHandler) GetStatus(c *gin.Context) {
	status, err := h.service.GetStatus(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, status)
}

// GetResults 获取完成作业的结果包
func (h *AnalysisHandler) GetResults(c *gin.Context) {
	results, err := h.service.GetResults(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		case errors.Is(err, service.ErrNotReady):
			c.JSON(http.StatusBadRequest, gin.H{"error": "analysis is not completed yet"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetRecent 返回最近的分析作业列表
func (h *AnalysisHandler) GetRecent(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	jobs, err := h.service.GetRecent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// GetQueueStatus 返回调度器队列状态
func (h *AnalysisHandler) GetQueueStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.dispatcher.GetQueueStatus())
}

// CleanupStuck 把执行超时的作业标记为失败
func (h *AnalysisHandler) CleanupStuck(c *gin.Context) {
	timeout := 30 * time.Minute
	if raw := c.Query("timeout_minutes"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			timeout = time.Duration(v) * time.Minute
		}
	}

	affected, err := h.service.CleanupStuckJobs(timeout)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cleaned": affected})
}

// Cancel 取消一个正在执行的作业
func (h *AnalysisHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if !h.dispatcher.CancelJob(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no running job for this analysis"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cancel requested"})
}
