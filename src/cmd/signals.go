package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/xpwu/go-cmd/arg"
	"github.com/xpwu/go-cmd/cmd"
	"github.com/xpwu/go-log/log"

	"hyperoptbot/src/config"
	"hyperoptbot/src/database"
	"hyperoptbot/src/datafile"
	"hyperoptbot/src/frame"
	"hyperoptbot/src/market"
	"hyperoptbot/src/space"
	"hyperoptbot/src/strategies"
)

// warmupBars 指标最长回看期之外再多取的 K 线根数
const warmupBars = 30

// RegisterSignalsCmd 注册信号评估命令
func RegisterSignalsCmd() {
	var name string
	var paramsFile string
	var source string
	var file string
	var symbol string
	var timeframe string
	var startDate string
	var endDate string
	var limit int
	var show int
	var out string
	var save bool

	cmd.RegisterCmd("signals", "annotate candles and evaluate buy/sell signals of a strategy", func(args *arg.Arg) {
		args.String(&name, "s", "strategy name (default: from config)")
		args.String(&paramsFile, "p", "params file (.yaml/.yml/.json), empty for reference rules")
		args.String(&source, "source", "candle source: file, binance, postgres, sqlite")
		args.String(&file, "file", "candle file for -source file (.parquet/.csv)")
		args.String(&symbol, "sym", "trading symbol (e.g., BTCUSDT)")
		args.String(&timeframe, "t", "timeframe (e.g., 1h, 4h, 1d)")
		args.String(&startDate, "start", "start date (YYYY-MM-DD)")
		args.String(&endDate, "end", "end date (YYYY-MM-DD)")
		args.Int(&limit, "l", "number of candles when no date range is given")
		args.Int(&show, "show", "print the last N rows carrying a signal (default: 10)")
		args.String(&out, "o", "write the annotated table with signals to a CSV file")
		args.Bool(&save, "save", "store the run in the database")
		args.Parse()

		c := *config.AppConfig
		if name != "" {
			c.Hyperopt.Strategy = name
		}
		if paramsFile != "" {
			c.Hyperopt.ParamsFile = paramsFile
		}
		if source != "" {
			c.Data.Source = source
		}
		if file != "" {
			c.Data.File = file
		}
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
		if save {
			c.Hyperopt.SaveRuns = true
		}
		if show <= 0 {
			show = 10
		}

		if err := c.Validate(); err != nil {
			fmt.Printf("❌ 参数错误: %v\n", err)
			fmt.Printf("💡 Usage: ./bin/hyperoptbot signals -s bb_rsi -sym BTCUSDT -t 1h [-p params.yaml] [-source binance]\n")
			os.Exit(1)
		}

		ctx := context.Background()
		fmt.Printf("📊 信号评估\n")
		fmt.Printf("================================\n")
		fmt.Printf("🔸 策略: %s\n", c.Hyperopt.Strategy)
		fmt.Printf("🔸 交易对: %s\n", c.Data.Symbol)
		fmt.Printf("🔸 时间周期: %s\n", c.Data.Timeframe)
		fmt.Printf("🔸 数据源: %s\n", c.Data.Source)
		if c.Hyperopt.ParamsFile == "" {
			fmt.Printf("🔸 参数: 参考规则\n")
		} else {
			fmt.Printf("🔸 参数: %s\n", c.Hyperopt.ParamsFile)
		}
		fmt.Println()

		startTime := time.Now()
		run, err := runSignals(ctx, &c)
		if err != nil {
			fmt.Printf("❌ 信号评估失败: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("✅ 评估完成 (耗时: %v)\n", time.Since(startTime))
		fmt.Printf("📈 K线数量: %d\n", run.Result.Rows)
		fmt.Printf("🟢 买入信号: %d\n", run.Result.BuySignals)
		fmt.Printf("🔴 卖出信号: %d\n", run.Result.SellSignals)
		printSignalRows(run.Result.Table, show)

		if out != "" {
			if err := writeTable(out, run.Result.Table); err != nil {
				fmt.Printf("❌ 写入结果失败: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("💾 结果已写入: %s\n", out)
		}

		if c.Hyperopt.SaveRuns {
			if err := saveRun(ctx, &c, run); err != nil {
				fmt.Printf("❌ 保存运行记录失败: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("💾 运行记录已保存: %s\n", run.ID)
		}
	})
}

// signalRun 命令内部的一次评估
type signalRun struct {
	*database.SignalRun
	Result *strategies.Result
}

// runSignals 读取参数与 K 线后在参考或给定参数下评估
func runSignals(ctx context.Context, c *config.Config) (*signalRun, error) {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("Signals")

	h, err := strategies.Default().Get(c.Hyperopt.Strategy)
	if err != nil {
		return nil, err
	}

	var buy, sell space.Assignment
	if c.Hyperopt.ParamsFile != "" {
		p, err := datafile.ReadParams(c.Hyperopt.ParamsFile)
		if err != nil {
			return nil, err
		}
		buy, sell = p.Buy, p.Sell
	}

	q, err := buildQuery(c)
	if err != nil {
		return nil, err
	}

	src, closer, err := openSource(ctx, c)
	if err != nil {
		return nil, err
	}
	defer closer()

	fetchCtx, cancel := context.WithTimeout(ctx, c.RequestTimeout()*time.Duration(requestRounds(q)))
	defer cancel()

	candles, err := src.GetCandles(fetchCtx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to load candles: %w", err)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("no candles for %s %s", q.Symbol, q.Timeframe)
	}
	logger.Info("K线加载完成", "count", len(candles))

	df, err := market.ToFrame(candles)
	if err != nil {
		return nil, err
	}

	session, err := strategies.NewSession(h, df)
	if err != nil {
		return nil, err
	}

	res, err := session.Signals(buy, sell)
	if err != nil {
		return nil, err
	}
	logger.Info("信号评估完成", "rows", res.Rows, "buy", res.BuySignals, "sell", res.SellSignals)

	return &signalRun{
		SignalRun: &database.SignalRun{
			Strategy:    h.Name(),
			Symbol:      q.Symbol,
			Timeframe:   q.Timeframe.String(),
			BuyParams:   buy,
			SellParams:  sell,
			Rows:        res.Rows,
			BuySignals:  res.BuySignals,
			SellSignals: res.SellSignals,
		},
		Result: res,
	}, nil
}

// buildQuery 开始日期向前扩展预热区间，未给日期时按条数取最近数据
func buildQuery(c *config.Config) (market.Query, error) {
	tf, err := c.GetTimeframe()
	if err != nil {
		return market.Query{}, err
	}
	start, end, err := c.TimeRange()
	if err != nil {
		return market.Query{}, err
	}

	q := market.Query{
		Symbol:    c.Data.Symbol,
		Timeframe: tf,
		End:       end,
	}
	if start.IsZero() {
		q.Limit = c.Data.Limit
		return q, nil
	}

	if q.Start, err = tf.WarmupStart(start, warmupBars); err != nil {
		return market.Query{}, err
	}
	return q, nil
}

// requestRounds 分页请求的轮数，至少为 1
func requestRounds(q market.Query) int {
	if q.Start.IsZero() || q.End.IsZero() {
		return 1 + q.Limit/1000
	}
	bars, err := q.Timeframe.Bars(q.Start, q.End)
	if err != nil {
		return 1
	}
	return 1 + bars/1000
}

func saveRun(ctx context.Context, c *config.Config, run *signalRun) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	store, err := openStore(ctx, c.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.SaveSignalRun(ctx, run.SignalRun)
}

// printSignalRows 打印最后 n 根带信号的 K 线
func printSignalRows(df dataframe.DataFrame, n int) {
	buy := frame.Signal(df, frame.BuyColumn)
	sell := frame.Signal(df, frame.SellColumn)
	cols, err := frame.Floats(df, frame.TimeColumn, frame.CloseColumn)
	if err != nil {
		return
	}
	dates, closes := cols[0], cols[1]

	var rows []int
	for i := len(buy) - 1; i >= 0 && len(rows) < n; i-- {
		if buy[i] || sell[i] {
			rows = append(rows, i)
		}
	}
	if len(rows) == 0 {
		return
	}

	fmt.Println()
	fmt.Printf("🕐 最近 %d 个信号:\n", len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		r := rows[i]
		mark := "🟢 BUY "
		if sell[r] && !buy[r] {
			mark = "🔴 SELL"
		} else if sell[r] {
			mark = "🟡 BOTH"
		}
		at := time.UnixMilli(int64(dates[r])).UTC().Format("2006-01-02 15:04")
		fmt.Printf("  %s %s  close=%.8g\n", mark, at, closes[r])
	}
}

func writeTable(path string, df dataframe.DataFrame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return df.WriteCSV(f)
}
