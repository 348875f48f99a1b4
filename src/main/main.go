package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/xpwu/go-cmd/cmd"
	"github.com/xpwu/go-config/configs"
	"github.com/xpwu/go-log/log"

	hyperoptcmd "hyperoptbot/src/cmd"
	"hyperoptbot/src/config"
)

func main() {
	// 设置 JSON 配置格式
	configs.SetConfigurator(&configs.JsonConfig{})

	setupConfigPath()

	// 读取配置文件
	err := configs.ReadWithErr()
	if err != nil {
		// 如果读取失败，生成默认配置文件
		printErr := configs.Print()
		if printErr != nil {
			panic("生成默认配置文件失败: " + printErr.Error())
		}
		panic("请修改 config.json 配置文件后重新运行")
	}

	if err := config.AppConfig.Validate(); err != nil {
		panic("配置验证失败: " + err.Error())
	}

	ctx := context.Background()
	_, logger := log.WithCtx(ctx)
	logger.PushPrefix("HyperoptBot")
	logger.Info("信号评估工具启动", "strategy", config.AppConfig.Hyperopt.Strategy, "source", config.AppConfig.Data.Source)

	hyperoptcmd.RegisterAllCommands()

	cmd.Run()
}

// setupConfigPath 智能设置配置文件路径
// 优先级: 1. bin/config.json 2. config.json 3. 生成默认配置
func setupConfigPath() {
	execPath, err := os.Executable()
	if err != nil {
		return
	}

	execDir := filepath.Dir(execPath)
	if _, err := os.Stat(filepath.Join(execDir, "config.json")); err == nil {
		// 切换工作目录到 bin 目录
		os.Chdir(execDir)
		return
	}

	// 当前目录没有配置文件时保持不变，让程序生成默认配置
}
