// @title Qurio 后端 API
// @version 1.0
// @description Qurio 在线测验平台的后端服务器。

// @contact.name API支持
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @host localhost:5000
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"qurio_backend/internal/app"
	"qurio_backend/internal/config"
	"qurio_backend/pkg/configwatcher"
	"qurio_backend/pkg/logger"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移在 NewApp 中完成，完成后直接退出
	if *migrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	// 配置热更新，及格线等业务参数无需重启生效
	go configwatcher.WatchConfig("configs/config.yaml", application.OnConfigReload)

	application.Run()
}
