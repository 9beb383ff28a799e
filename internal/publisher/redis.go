// Package publisher pushes finished wrapped reports onto a Redis stream so
// other services can render or archive them.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/omarshaarawi/leaguewrapped/internal/analysis"
	"github.com/redis/go-redis/v9"
)

const streamMaxLen = 100

type RedisPublisher struct {
	client *redis.Client
	stream string
}

func NewRedisPublisher(client *redis.Client, stream string) *RedisPublisher {
	return &RedisPublisher{client: client, stream: stream}
}

func (p *RedisPublisher) Publish(ctx context.Context, report *analysis.Report) error {
	values, err := streamValues(report)
	if err != nil {
		return err
	}

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: values,
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd to stream: %w", err)
	}

	slog.Info("Published wrapped report", "stream", p.stream, "id", id, "league", report.LeagueID)
	return nil
}

func streamValues(report *analysis.Report) (map[string]interface{}, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return map[string]interface{}{
		"league_id":    report.LeagueID,
		"season":       report.Season,
		"generated_at": report.GeneratedAt.UTC().Format(time.RFC3339),
		"data":         string(data),
	}, nil
}
