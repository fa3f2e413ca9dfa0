// @title AGLC Assistant
// @version 1.0
// @description 基于引用的问答 Web 前端：聊天、引用面板与嵌入模式切换。

// @host localhost:8005
// @BasePath /

package main

import (
	"aglc_chat/internal/app"
	"aglc_chat/internal/config"
	"aglc_chat/pkg/logger"
	"flag"
	"log"
)

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "配置文件所在目录")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	application.Run()
}
