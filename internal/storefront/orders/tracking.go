package orders

import (
	"time"

	"github.com/jcmexdev/pizzeria/internal/storefront/domain"
)

// StageInterval is the simulated time spent in each fulfilment stage.
const StageInterval = 8 * time.Minute

// DeliveryEstimate is the promised delivery time after an order is placed.
const DeliveryEstimate = 45 * time.Minute

type StageStatus struct {
	Stage     domain.Stage `json:"stage"`
	Completed bool         `json:"completed"`
	Active    bool         `json:"active"`
}

type Tracking struct {
	OrderNumber       string        `json:"orderNumber"`
	ElapsedMinutes    int64         `json:"elapsedMinutes"`
	Current           domain.Stage  `json:"current"`
	Stages            []StageStatus `json:"stages"`
	EstimatedDelivery time.Time     `json:"estimatedDelivery"`
}

// Track derives the display stage of an order from wall-clock time. It is a
// pure function of now minus the order timestamp; nothing is stored.
func Track(o domain.Order, now time.Time) Tracking {
	minutes := int64(now.Sub(o.CreatedAt) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	idx := int(minutes / int64(StageInterval/time.Minute))
	if last := len(domain.Stages) - 1; idx > last {
		idx = last
	}

	stages := make([]StageStatus, len(domain.Stages))
	for i, s := range domain.Stages {
		stages[i] = StageStatus{Stage: s, Completed: i <= idx, Active: i == idx}
	}
	return Tracking{
		OrderNumber:       o.Number,
		ElapsedMinutes:    minutes,
		Current:           domain.Stages[idx],
		Stages:            stages,
		EstimatedDelivery: o.CreatedAt.Add(DeliveryEstimate),
	}
}
