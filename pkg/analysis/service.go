// 文件: pkg/analysis/service.go
// 分析服务 - 计算、落库、发事件的组合层
//
// 【职责】
// 1. 调用 perpcalc 完成计算 (纯函数，不落库)
// 2. 把快照转成 Record 落库
// 3. 发布 NATS / Kafka 事件 (可选，nil 即关闭)
//
// 计算失败直接返回；落库失败返回错误；事件发布失败只记日志，
// 事件是衍生数据，不应该让一次分析请求失败

package analysis

import (
	"context"
	"log"
	"time"

	"perpcalc.com/pkg/kafka"
	"perpcalc.com/pkg/perpcalc"
)

// =============================================================================
// Service
// =============================================================================

// Service 分析服务
type Service struct {
	calc *perpcalc.Calculator
	repo RecordRepository

	// 事件出口，均可为 nil (关闭)
	publisher *Publisher
	producer  *kafka.Producer
}

// NewService 创建分析服务
func NewService(calc *perpcalc.Calculator, repo RecordRepository) *Service {
	return &Service{
		calc: calc,
		repo: repo,
	}
}

// WithPublisher 挂载 NATS 发布器
func (s *Service) WithPublisher(p *Publisher) *Service {
	s.publisher = p
	return s
}

// WithProducer 挂载 Kafka 生产者
func (s *Service) WithProducer(p *kafka.Producer) *Service {
	s.producer = p
	return s
}

// =============================================================================
// 分析入口
// =============================================================================

// AnalyzePosition 分析持仓、落库并发布事件
func (s *Service) AnalyzePosition(
	ctx context.Context,
	userID int64,
	symbol string,
	pos perpcalc.Position,
	currentPrice float64,
	entryTime, now time.Time,
) (*Record, perpcalc.PositionSnapshot, error) {
	snap, err := s.calc.Analyze(pos, currentPrice, entryTime, now)
	if err != nil {
		return nil, perpcalc.PositionSnapshot{}, err
	}

	record := NewRecord(userID, symbol, snap)
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, perpcalc.PositionSnapshot{}, err
	}

	s.emitSnapshot(record, snap)
	return record, snap, nil
}

// SweepScenarios 场景扫描并发布事件 (扫描结果不落库，数据量大且即算即用)
func (s *Service) SweepScenarios(
	userID int64,
	symbol string,
	pos perpcalc.Position,
	holdHours float64,
	exitPrices []float64,
) ([]perpcalc.Scenario, error) {
	if len(exitPrices) == 0 {
		exitPrices = perpcalc.DefaultScenarioPrices(pos.EntryPrice)
	}

	scenarios, err := s.calc.Simulate(pos, holdHours, exitPrices)
	if err != nil {
		return nil, err
	}

	s.emitScenarios(userID, symbol, holdHours, scenarios)
	return scenarios, nil
}

// =============================================================================
// 事件发布
// =============================================================================

func (s *Service) emitSnapshot(record *Record, snap perpcalc.PositionSnapshot) {
	if s.publisher != nil {
		if err := s.publisher.PublishSnapshot(record, snap); err != nil {
			log.Printf("[Analysis] publish snapshot failed: %v", err)
		}
	}
	if s.producer != nil {
		event := &SnapshotEvent{
			RecordID:  record.ID,
			UserID:    record.UserID,
			Symbol:    record.Symbol,
			Snapshot:  snap,
			Timestamp: time.Now().UnixMilli(),
		}
		if err := s.producer.Send(&SnapshotMessage{Event: event}); err != nil {
			log.Printf("[Analysis] kafka snapshot failed: %v", err)
		}
	}
}

func (s *Service) emitScenarios(userID int64, symbol string, holdHours float64, scenarios []perpcalc.Scenario) {
	if s.publisher != nil {
		if err := s.publisher.PublishScenarios(userID, symbol, holdHours, scenarios); err != nil {
			log.Printf("[Analysis] publish scenarios failed: %v", err)
		}
	}
	if s.producer != nil {
		event := &ScenariosEvent{
			UserID:    userID,
			Symbol:    symbol,
			HoldHours: holdHours,
			Scenarios: scenarios,
			Timestamp: time.Now().UnixMilli(),
		}
		if err := s.producer.Send(&ScenarioMessage{Event: event}); err != nil {
			log.Printf("[Analysis] kafka scenarios failed: %v", err)
		}
	}
}
