// 文件: pkg/analysis/publisher.go
// 分析事件 NATS 发布器
//
// 看板/机器人订阅这些事件做渲染和提醒，本模块只负责发出去

package analysis

import (
	"time"

	"perpcalc.com/pkg/nats"
	"perpcalc.com/pkg/perpcalc"
)

// =============================================================================
// 主题定义
// =============================================================================

const (
	// SubjectSnapshot 持仓快照事件
	SubjectSnapshot = "analysis.snapshot"

	// SubjectScenarios 场景扫描事件
	SubjectScenarios = "analysis.scenarios"
)

// =============================================================================
// 事件结构
// =============================================================================

// SnapshotEvent 持仓快照事件
type SnapshotEvent struct {
	RecordID  int64                     `json:"record_id"`
	UserID    int64                     `json:"user_id"`
	Symbol    string                    `json:"symbol"`
	Snapshot  perpcalc.PositionSnapshot `json:"snapshot"`
	Timestamp int64                     `json:"timestamp"` // Unix毫秒
}

// ScenariosEvent 场景扫描事件
type ScenariosEvent struct {
	UserID    int64               `json:"user_id"`
	Symbol    string              `json:"symbol"`
	HoldHours float64             `json:"hold_hours"`
	Scenarios []perpcalc.Scenario `json:"scenarios"`
	Timestamp int64               `json:"timestamp"`
}

// =============================================================================
// Publisher
// =============================================================================

// Publisher 分析事件发布器
type Publisher struct {
	publisher *nats.Publisher
}

// NewPublisher 创建发布器
func NewPublisher(natsURL string) (*Publisher, error) {
	p, err := nats.NewPublisher(natsURL)
	if err != nil {
		return nil, err
	}
	return &Publisher{publisher: p}, nil
}

// PublishSnapshot 发布持仓快照事件
func (p *Publisher) PublishSnapshot(record *Record, snap perpcalc.PositionSnapshot) error {
	event := &SnapshotEvent{
		RecordID:  record.ID,
		UserID:    record.UserID,
		Symbol:    record.Symbol,
		Snapshot:  snap,
		Timestamp: time.Now().UnixMilli(),
	}
	return p.publisher.Publish(SubjectSnapshot, event)
}

// PublishScenarios 发布场景扫描事件
func (p *Publisher) PublishScenarios(userID int64, symbol string, holdHours float64, scenarios []perpcalc.Scenario) error {
	event := &ScenariosEvent{
		UserID:    userID,
		Symbol:    symbol,
		HoldHours: holdHours,
		Scenarios: scenarios,
		Timestamp: time.Now().UnixMilli(),
	}
	return p.publisher.Publish(SubjectScenarios, event)
}

// Close 关闭发布器
func (p *Publisher) Close() error {
	p.publisher.Close()
	return nil
}
