package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/xpwu/go-cmd/arg"
	"github.com/xpwu/go-cmd/cmd"

	"hyperoptbot/src/binance"
	"hyperoptbot/src/config"
	"hyperoptbot/src/datafile"
	"hyperoptbot/src/market"
)

// RegisterKlineCmd 注册K线下载命令，结果写入文件或数据库供 signals 复用
func RegisterKlineCmd() {
	var symbol string
	var timeframe string
	var startDate string
	var endDate string
	var limit int
	var out string
	var save bool

	cmd.RegisterCmd("kline", "download candles from Binance into a file or the database", func(args *arg.Arg) {
		args.String(&symbol, "sym", "trading symbol (default: from config)")
		args.String(&timeframe, "t", "timeframe (default: from config)")
		args.String(&startDate, "start", "start date (YYYY-MM-DD)")
		args.String(&endDate, "end", "end date (YYYY-MM-DD)")
		args.Int(&limit, "l", "number of candles when no date range is given")
		args.String(&out, "o", "output file (.parquet/.csv)")
		args.Bool(&save, "save", "save candles to the configured database")
		args.Parse()

		c := *config.AppConfig
		c.Data.Source = config.SourceBinance
		c.Data.Cache = false
		if symbol != "" {
			c.Data.Symbol = symbol
		}
		if timeframe != "" {
			c.Data.Timeframe = timeframe
		}
		if startDate != "" {
			c.Data.StartDate = startDate
		}
		if endDate != "" {
			c.Data.EndDate = endDate
		}
		if limit > 0 {
			c.Data.Limit = limit
		}
		if err := c.Validate(); err != nil {
			fmt.Printf("❌ 参数错误: %v\n", err)
			os.Exit(1)
		}
		if out == "" && !save {
			fmt.Printf("❌ Error: -o or -save is required\n")
			fmt.Printf("💡 Usage: ./bin/hyperoptbot kline -sym BTCUSDT -t 1h -start 2024-01-01 -o data/btc_1h.parquet\n")
			os.Exit(1)
		}

		if err := runKline(context.Background(), &c, out, save); err != nil {
			fmt.Printf("❌ K线下载失败: %v\n", err)
			os.Exit(1)
		}
	})
}

func runKline(ctx context.Context, c *config.Config, out string, save bool) error {
	q, err := klineQuery(c)
	if err != nil {
		return err
	}

	fmt.Printf("📊 K线下载\n")
	fmt.Printf("================================\n")
	fmt.Printf("🔸 交易对: %s\n", q.Symbol)
	fmt.Printf("🔸 时间周期: %s\n", q.Timeframe)
	fmt.Printf("🔸 数据源: %s\n", c.Binance.BaseURL)
	fmt.Println()

	client := binance.NewClient(c.Binance.APIKey, c.Binance.SecretKey, c.Binance.BaseURL)

	fetchCtx, cancel := context.WithTimeout(ctx, c.RequestTimeout()*time.Duration(requestRounds(q)))
	defer cancel()

	fmt.Print("🔄 正在获取K线数据...")
	startTime := time.Now()
	candles, err := client.GetCandles(fetchCtx, q)
	if err != nil {
		fmt.Println()
		return err
	}
	fmt.Printf(" 完成! %d 根 (耗时: %v)\n", len(candles), time.Since(startTime))

	if len(candles) > 0 {
		first, last := candles[0], candles[len(candles)-1]
		fmt.Printf("🕐 区间: %s ~ %s\n",
			time.UnixMilli(first.OpenTime).UTC().Format("2006-01-02 15:04"),
			time.UnixMilli(last.OpenTime).UTC().Format("2006-01-02 15:04"))
	}

	if out != "" {
		if err := datafile.WriteCandles(out, candles); err != nil {
			return err
		}
		fmt.Printf("💾 已写入文件: %s\n", out)
	}

	if save {
		store, err := openStore(ctx, c.Database)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.SaveCandles(ctx, q.Timeframe.String(), candles); err != nil {
			return err
		}
		fmt.Printf("💾 已保存到数据库: %s\n", c.Database.Driver)
	}
	return nil
}

// klineQuery 下载不需要预热区间
func klineQuery(c *config.Config) (market.Query, error) {
	tf, err := c.GetTimeframe()
	if err != nil {
		return market.Query{}, err
	}
	start, end, err := c.TimeRange()
	if err != nil {
		return market.Query{}, err
	}
	q := market.Query{Symbol: c.Data.Symbol, Timeframe: tf, Start: start, End: end}
	if start.IsZero() {
		q.Limit = c.Data.Limit
	}
	return q, nil
}
