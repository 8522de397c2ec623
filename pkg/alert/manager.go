// 文件: pkg/alert/manager.go
// 内存版强平距离预警管理器
// 用于单元测试和 cmd/simulation，线上换 Redis 实现

package alert

import (
	"sync"
	"time"
)

// 确保实现了接口
var _ SubscriptionManager = (*MemorySubscriptionManager)(nil)

// MemorySubscriptionManager 内存实现
type MemorySubscriptionManager struct {
	mu    sync.Mutex
	rules map[string]MarginRule // key: AlertID
}

func NewMemorySubscriptionManager() *MemorySubscriptionManager {
	return &MemorySubscriptionManager{
		rules: make(map[string]MarginRule),
	}
}

// Subscribe 订阅预警
func (m *MemorySubscriptionManager) Subscribe(rule MarginRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rule.AlertID == "" {
		return ErrMissingAlertID
	}
	m.rules[rule.AlertID] = rule
	return nil
}

// Unsubscribe 取消订阅
func (m *MemorySubscriptionManager) Unsubscribe(alertID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.rules, alertID)
	return nil
}

// GetTriggeredAlerts 获取触发的预警
// 遍历全量规则 (模拟 Redis ZSet 的范围查询 + 业务过滤)
func (m *MemorySubscriptionManager) GetTriggeredAlerts(symbol string, currentPrice float64) ([]MarginRule, error) {
	m.mu.Lock() // 涉及更新 LastTriggeredAt 和删除 Once 规则，用写锁
	defer m.mu.Unlock()

	var triggered []MarginRule
	now := time.Now()

	for id, rule := range m.rules {
		if rule.Symbol != symbol {
			continue
		}

		// 价格条件:
		// low:  当前价 <= 预警价 (多头逼近下方强平价)
		// high: 当前价 >= 预警价 (空头逼近上方强平价)
		priceMatch := false
		switch rule.Direction {
		case DirectionLow:
			priceMatch = currentPrice <= rule.WarnPrice
		case DirectionHigh:
			priceMatch = currentPrice >= rule.WarnPrice
		}
		if !priceMatch {
			continue
		}

		// 频率控制
		shouldTrigger := false
		switch rule.Type {
		case AlertOnce:
			shouldTrigger = true
			// Once 类型触发后直接删除
			delete(m.rules, id)

		case AlertDaily:
			last := time.Unix(rule.LastTriggeredAt, 0)
			if rule.LastTriggeredAt == 0 || !isSameDay(last, now) {
				shouldTrigger = true
				rule.LastTriggeredAt = now.Unix()
				m.rules[id] = rule
			}

		case AlertAlways:
			shouldTrigger = true
			rule.LastTriggeredAt = now.Unix()
			m.rules[id] = rule
		}

		if shouldTrigger {
			triggered = append(triggered, rule)
		}
	}

	return triggered, nil
}

// isSameDay 判断两个时间是否是同一天
func isSameDay(t1, t2 time.Time) bool {
	y1, m1, d1 := t1.Date()
	y2, m2, d2 := t2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
