// 文件: pkg/analysis/messages.go
// 分析事件 Kafka 消息
//
// 实现 pkg/kafka 的 Message 接口，按 symbol 分区:
// 同一交易对的快照在分区内有序，消费端可以直接做时间序列

package analysis

import (
	"encoding/json"

	"perpcalc.com/pkg/kafka"
)

// 确保实现了接口
var (
	_ kafka.Message = (*SnapshotMessage)(nil)
	_ kafka.Message = (*ScenarioMessage)(nil)
)

// =============================================================================
// Topic 定义
// =============================================================================

const (
	TopicSnapshots = "analysis-snapshots"
	TopicScenarios = "analysis-scenarios"
)

// =============================================================================
// SnapshotMessage
// =============================================================================

// SnapshotMessage 持仓快照 Kafka 消息
type SnapshotMessage struct {
	Event *SnapshotEvent
}

func (m *SnapshotMessage) Topic() string {
	return TopicSnapshots
}

func (m *SnapshotMessage) Key() string {
	return m.Event.Symbol
}

func (m *SnapshotMessage) Value() ([]byte, error) {
	return json.Marshal(m.Event)
}

// =============================================================================
// ScenarioMessage
// =============================================================================

// ScenarioMessage 场景扫描 Kafka 消息
type ScenarioMessage struct {
	Event *ScenariosEvent
}

func (m *ScenarioMessage) Topic() string {
	return TopicScenarios
}

func (m *ScenarioMessage) Key() string {
	return m.Event.Symbol
}

func (m *ScenarioMessage) Value() ([]byte, error) {
	return json.Marshal(m.Event)
}
