// 文件: pkg/alert/redis_manager.go
// Redis 版强平距离预警管理器
//
// 【存储结构】
// - 详情: margin_alert:detail:{id} → 规则 JSON
// - 索引: margin_alerts:{symbol}:{direction} → ZSet, score = 预警价
//
// 【查询思路】
// 多头预警 (low): 价格下跌时查 score >= currentPrice 的规则
// 空头预警 (high): 价格上涨时查 score <= currentPrice 的规则
// ZSet 范围查询直接拿到候选集，不用遍历全量规则

package alert

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSubscriptionManager Redis 实现
type RedisSubscriptionManager struct {
	client *redis.Client
}

func NewRedisSubscriptionManager(addr string) *RedisSubscriptionManager {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisSubscriptionManager{client: rdb}
}

// luaSubscribe 订阅脚本
// KEYS[1]: detailKey (margin_alert:detail:{id})
// KEYS[2]: indexKey (margin_alerts:{symbol}:{direction})
// ARGV[1]: alertID
// ARGV[2]: score (warn price)
// ARGV[3]: ruleJSON
// ARGV[4]: alertType
const luaSubscribe = `
	redis.call('SET', KEYS[1], ARGV[3])
	-- 拼装 Member: ID:Type (避免查询时反序列化)
	local member = ARGV[1] .. ":" .. ARGV[4]
	redis.call('ZADD', KEYS[2], ARGV[2], member)
	return 1
`

// Subscribe 订阅预警
func (m *RedisSubscriptionManager) Subscribe(ctx context.Context, rule MarginRule) error {
	if rule.AlertID == "" {
		return ErrMissingAlertID
	}
	data, err := json.Marshal(rule)
	if err != nil {
		return err
	}
	detailKey := "margin_alert:detail:" + rule.AlertID
	indexKey := "margin_alerts:" + rule.Symbol + ":" + rule.Direction
	return m.client.Eval(ctx, luaSubscribe, []string{detailKey, indexKey},
		rule.AlertID, rule.WarnPrice, data, string(rule.Type)).Err()
}

// luaUnsubscribe 取消订阅脚本
// KEYS[1]: detailKey
// ARGV[1]: alertID
const luaUnsubscribe = `
	local data = redis.call('GET', KEYS[1])
	if not data then return 0 end

	local rule = cjson.decode(data)
	local indexKey = string.format("margin_alerts:%s:%s", rule["symbol"], rule["direction"])
	local member = ARGV[1] .. ":" .. rule["type"]

	redis.call('ZREM', indexKey, member)
	redis.call('DEL', KEYS[1])
	return 1
`

// Unsubscribe 取消订阅
func (m *RedisSubscriptionManager) Unsubscribe(ctx context.Context, alertID string) error {
	detailKey := "margin_alert:detail:" + alertID
	return m.client.Eval(ctx, luaUnsubscribe, []string{detailKey}, alertID).Err()
}

// GetTriggeredAlerts 获取触发的预警
//
// 两个方向都查 (一个 symbol 上同时可能有多头和空头的预警):
// - low:  score >= currentPrice (价格已经跌到预警价下方)
// - high: score <= currentPrice (价格已经涨到预警价上方)
func (m *RedisSubscriptionManager) GetTriggeredAlerts(ctx context.Context, symbol string, currentPrice float64) ([]MarginRule, error) {
	triggered := make([]MarginRule, 0, 32)
	price := strconv.FormatFloat(currentPrice, 'f', -1, 64)

	ranges := []struct {
		direction string
		min, max  string
	}{
		{DirectionLow, price, "+inf"},
		{DirectionHigh, "-inf", price},
	}

	for _, rng := range ranges {
		indexKey := "margin_alerts:" + symbol + ":" + rng.direction

		rules, err := m.collectTriggered(ctx, indexKey, symbol, rng.min, rng.max)
		if err != nil {
			return nil, err
		}
		triggered = append(triggered, rules...)
	}

	return triggered, nil
}

// collectTriggered 分页扫描一个方向的索引
func (m *RedisSubscriptionManager) collectTriggered(ctx context.Context, indexKey, symbol, min, max string) ([]MarginRule, error) {
	const batchSize = 100
	var triggered []MarginRule
	offset := 0

	for {
		members, err := m.client.ZRangeByScore(ctx, indexKey, &redis.ZRangeBy{
			Min:    min,
			Max:    max,
			Offset: int64(offset),
			Count:  batchSize,
		}).Result()
		if err != nil {
			return nil, err
		}
		if len(members) == 0 {
			break
		}

		membersToRemove := make([]string, 0, len(members))

		for _, member := range members {
			// Member 格式: "ID:Type"
			alertID, typeStr, found := strings.Cut(member, ":")
			if !found {
				continue
			}
			alertType := AlertType(typeStr)

			// Always 类型加冷却，防止打摆子
			if alertType == AlertAlways {
				cooldownKey := "margin_alert:cooldown:" + alertID
				allowed, _ := m.client.SetNX(ctx, cooldownKey, "1", 60*time.Second).Result()
				if !allowed {
					continue
				}
			}

			if alertType == AlertOnce {
				membersToRemove = append(membersToRemove, member)
			}

			rule := MarginRule{
				AlertID: alertID,
				Type:    alertType,
				Symbol:  symbol,
			}
			triggered = append(triggered, rule)
		}

		// 批量删除 Once 类型的索引和详情
		if len(membersToRemove) > 0 {
			args := make([]interface{}, len(membersToRemove))
			for i, v := range membersToRemove {
				args[i] = v
				if alertID, _, ok := strings.Cut(v, ":"); ok {
					m.client.Del(ctx, "margin_alert:detail:"+alertID)
				}
			}
			m.client.ZRem(ctx, indexKey, args...)
		}

		offset += batchSize
	}

	return triggered, nil
}
