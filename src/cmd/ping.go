package cmd

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/xpwu/go-cmd/arg"
	"github.com/xpwu/go-cmd/cmd"

	"hyperoptbot/src/binance"
	"hyperoptbot/src/config"
)

// RegisterPingCmd 注册ping测试命令
func RegisterPingCmd() {
	var verbose bool
	var timeout int

	cmd.RegisterCmd("ping", "test connectivity to the Binance market data API", func(args *arg.Arg) {
		args.Bool(&verbose, "v", "verbose output with server time drift")
		args.Int(&timeout, "t", "timeout in seconds (default: from config)")
		args.Parse()

		d := config.AppConfig.RequestTimeout()
		if timeout > 0 {
			d = time.Duration(timeout) * time.Second
		}

		latency, err := ping(config.AppConfig.Binance.BaseURL, d, verbose)
		if err != nil {
			fmt.Printf("❌ Ping test failed: %v\n", err)
			return
		}
		fmt.Printf("✅ Ping test successful! (%v, %s)\n", latency, quality(latency))
	})
}

func ping(baseURL string, timeout time.Duration, verbose bool) (time.Duration, error) {
	if verbose {
		fmt.Printf("📡 目标服务器: %s\n", baseURL)
		fmt.Printf("⏰ 超时时间: %v\n", timeout)
	}

	client := binance.NewClient("", "", baseURL)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	if err := client.Ping(ctx); err != nil {
		return 0, err
	}
	latency := time.Since(start)

	if verbose {
		serverTime, err := client.GetServerTime(ctx)
		if err != nil {
			fmt.Printf("🕐 获取服务器时间失败: %v\n", err)
		} else {
			drift := int64(math.Abs(float64(serverTime.Unix() - time.Now().Unix())))
			fmt.Printf("🕐 服务器时间: %s (本地时间差: %ds)\n", serverTime.Format("2006-01-02 15:04:05 MST"), drift)
			if drift > 60 {
				fmt.Println("⚠️ 时间差较大，K线区间可能错位")
			}
		}
	}
	return latency, nil
}

// quality 网络质量描述
func quality(latency time.Duration) string {
	switch {
	case latency < 100*time.Millisecond:
		return "优秀"
	case latency < 300*time.Millisecond:
		return "良好"
	case latency < time.Second:
		return "一般"
	default:
		return "较差"
	}
}
