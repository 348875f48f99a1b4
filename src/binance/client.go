package binance

import (
	"context"
	"fmt"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/xpwu/go-log/log"

	"hyperoptbot/src/market"
)

// MaxKlinesPerRequest 币安单次请求的 K 线上限
const MaxKlinesPerRequest = 1000

// Client 币安行情客户端封装，只读
type Client struct {
	client    *binance.Client
	apiKey    string
	secretKey string

	// pageSize 单次请求条数，测试时可调小
	pageSize int
}

// NewClient 创建新的币安客户端
func NewClient(apiKey, secretKey, baseURL string) *Client {
	client := binance.NewClient(apiKey, secretKey)
	if baseURL != "" {
		client.BaseURL = baseURL
	}

	return &Client{
		client:    client,
		apiKey:    apiKey,
		secretKey: secretKey,
		pageSize:  MaxKlinesPerRequest,
	}
}

// GetCandles 获取 K 线，超过单次上限时按开盘时间向后翻页
func (c *Client) GetCandles(ctx context.Context, q market.Query) ([]*market.Candle, error) {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("BinanceClient")

	if !q.Timeframe.IsValid() {
		return nil, fmt.Errorf("invalid timeframe: %s", q.Timeframe)
	}

	var startTime, endTime int64
	if !q.Start.IsZero() {
		startTime = q.Start.UnixMilli()
	}
	if !q.End.IsZero() {
		// 查询区间右开
		endTime = q.End.UnixMilli() - 1
	}

	var result []*market.Candle
	for {
		size := c.pageSize
		if q.Limit > 0 && q.Limit-len(result) < size {
			size = q.Limit - len(result)
		}

		page, err := c.getKlines(ctx, q.Symbol, q.Timeframe.String(), startTime, endTime, size)
		if err != nil {
			return nil, err
		}
		logger.Debug("获取K线分页", "symbol", q.Symbol, "count", len(page), "start", startTime)
		result = append(result, page...)

		if len(page) < size || (q.Limit > 0 && len(result) >= q.Limit) {
			break
		}
		// 只有指定了起点才能向后翻页
		if startTime == 0 {
			break
		}
		startTime = page[len(page)-1].OpenTime + 1
		if endTime > 0 && startTime > endTime {
			break
		}
	}

	logger.Info("获取K线完成", "symbol", q.Symbol, "timeframe", q.Timeframe, "count", len(result))
	return result, nil
}

func (c *Client) getKlines(ctx context.Context, symbol, interval string, startTime, endTime int64, limit int) ([]*market.Candle, error) {
	service := c.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval)

	if limit > 0 {
		service = service.Limit(limit)
	}

	if startTime > 0 {
		service = service.StartTime(startTime)
	}

	if endTime > 0 {
		service = service.EndTime(endTime)
	}

	klines, err := service.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get klines: %w", err)
	}

	result := make([]*market.Candle, len(klines))
	for i, kline := range klines {
		prices, err := market.ParseDecimals(kline.Open, kline.High, kline.Low, kline.Close, kline.Volume)
		if err != nil {
			return nil, fmt.Errorf("kline %d: %w", kline.OpenTime, err)
		}

		result[i] = &market.Candle{
			Symbol:    symbol,
			OpenTime:  kline.OpenTime,
			Open:      prices[0],
			High:      prices[1],
			Low:       prices[2],
			Close:     prices[3],
			Volume:    prices[4],
			CloseTime: kline.CloseTime,
		}
	}

	return result, nil
}

// Ping 测试连接
func (c *Client) Ping(ctx context.Context) error {
	err := c.client.NewPingService().Do(ctx)
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// GetServerTime 获取服务器时间
func (c *Client) GetServerTime(ctx context.Context) (time.Time, error) {
	serverTime, err := c.client.NewServerTimeService().Do(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get server time: %w", err)
	}
	return time.UnixMilli(serverTime), nil
}

var _ market.Source = (*Client)(nil)
