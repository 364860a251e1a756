package event

import (
	"encoding/json"

	"github.com/blues/fes/internal/logger"
	"github.com/blues/fes/internal/model"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// Recorder 支付审计事件记录器，通过协程池异步落库
type Recorder struct {
	db   *gorm.DB
	pool *ants.Pool
}

// NewRecorder 创建事件记录器
func NewRecorder(db *gorm.DB, poolSize int) (*Recorder, error) {
	if poolSize <= 0 {
		poolSize = 8
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	return &Recorder{db: db, pool: pool}, nil
}

// Record 记录一条支付事件，data 序列化为JSON存入
func (r *Recorder) Record(userID, contractID uint, eventType, reference string, data interface{}) {
	payload := ""
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			logger.Warn("Failed to marshal payment event data: %v", err)
		} else {
			payload = string(b)
		}
	}

	task := func() {
		ev := model.PaymentEvent{
			UserID:     userID,
			ContractID: contractID,
			EventType:  eventType,
			Reference:  reference,
			Data:       payload,
		}
		if err := r.db.Create(&ev).Error; err != nil {
			logger.Error("Failed to record payment event %s: %v", eventType, err)
		}
	}

	if err := r.pool.Submit(task); err != nil {
		// 池已关闭时降级为同步写入
		task()
	}
}

// Close 关闭协程池
func (r *Recorder) Close() {
	r.pool.Release()
}
