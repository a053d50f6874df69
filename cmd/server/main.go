package main

import (
	"flag"
	"log"
	"os"

	"k8s.io/klog/v2"

	"github.com/gitanalyzer/backend/config"
	"github.com/gitanalyzer/backend/internal/eventbus"
	"github.com/gitanalyzer/backend/internal/handler"
	"github.com/gitanalyzer/backend/internal/pkg/database"
	"github.com/gitanalyzer/backend/internal/repository"
	"github.com/gitanalyzer/backend/internal/router"
	"github.com/gitanalyzer/backend/internal/service"
	"github.com/gitanalyzer/backend/internal/service/dispatcher"
	"github.com/gitanalyzer/backend/internal/subscriber"
)

func main() {
	// 初始化 klog
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	klog.V(6).Info("服务启动中...")

	cfg := config.GetConfig()

	if err := os.MkdirAll(cfg.Data.Dir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// 初始化数据库
	db, err := database.InitDB(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 初始化 Repository
	jobRepo := repository.NewAnalysisJobRepository(db)
	resultStore, err := repository.NewResultFileStore(cfg.Data.ResultsDir)
	if err != nil {
		log.Fatalf("Failed to initialize result store: %v", err)
	}

	// 事件总线：作业生命周期事件镜像到持久化索引
	bus := eventbus.NewBus()
	subscriber.NewAnalysisEventSubscriber(jobRepo).Register(bus)

	// 初始化 Service
	registry := service.NewRegistry()
	fetcher := service.NewGitHubFetcher(cfg)
	analysisService := service.NewAnalysisService(cfg, registry, jobRepo, resultStore, fetcher, nil, bus)
	exportService := service.NewExportService(analysisService, cfg.Data.ExportDir)

	// 初始化作业调度器
	// maxWorkers=2，避免并发过多打爆LLM配额
	disp, err := dispatcher.NewDispatcher(2, &jobExecutorAdapter{analysisService: analysisService})
	if err != nil {
		log.Fatalf("Failed to initialize dispatcher: %v", err)
	}
	disp.Start()
	defer disp.Stop()

	// 初始化 Handler
	analysisHandler := handler.NewAnalysisHandler(analysisService, disp)
	exportHandler := handler.NewExportHandler(exportService)
	systemHandler := handler.NewSystemHandler(cfg)

	// 启动时清理索引里残留的活跃作业
	recoverInterruptedJobs(analysisService)

	// 设置路由
	r := router.Setup(cfg, analysisHandler, exportHandler, systemHandler)

	log.Printf("Server starting on port %s...", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// recoverInterruptedJobs 清理启动前中断的作业
func recoverInterruptedJobs(analysisService *service.AnalysisService) {
	affected, err := analysisService.RecoverInterruptedJobs()
	if err != nil {
		klog.V(6).Infof("清理中断作业失败: %v", err)
		return
	}

	if affected > 0 {
		klog.V(6).Infof("启动时清理了 %d 个中断的作业", affected)
	}
}
