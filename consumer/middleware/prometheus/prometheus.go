package prometheus

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/startdusk/rowconsumer/consumer"
)

const (
	OutcomeOK                      = "ok"
	OutcomeConversionError         = "conversion_error"
	OutcomeDatabaseConnectionError = "database_connection_error"
)

type MiddlewareBuilder struct {
	Namespace string
	Subsystem string
	Name      string
	Help      string

	// Registerer 为空时注册到 prometheus.DefaultRegisterer
	Registerer prometheus.Registerer
}

func (m MiddlewareBuilder) Build() consumer.Middleware {
	vector := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name:      m.Name,
		Subsystem: m.Subsystem,
		Namespace: m.Namespace,
		Help:      m.Help,

		// 设置指标 如 0.5: 0.01 0.5是一个指标，0.01是一个误差值，表示0.5上下0.01 即误差范围为 0.49-0.51
		Objectives: map[float64]float64{
			0.5:   0.01,
			0.75:  0.01,
			0.90:  0.01,
			0.99:  0.001,
			0.999: 0.0001,
		},
	}, []string{"type", "model"})

	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      m.Name + "_outcomes_total",
		Subsystem: m.Subsystem,
		Namespace: m.Namespace,
		Help:      "按结果统计的调用次数",
	}, []string{"type", "model", "outcome"})

	reg := m.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(vector, outcomes)

	return func(next consumer.Handler) consumer.Handler {
		return func(ctx context.Context, qc *consumer.QueryContext) *consumer.QueryResult {
			startTime := time.Now()
			res := next(ctx, qc)
			duration := time.Since(startTime).Milliseconds()
			vector.WithLabelValues(qc.Type, qc.Model).Observe(float64(duration))
			outcomes.WithLabelValues(qc.Type, qc.Model, Outcome(res.Err)).Inc()
			return res
		}
	}
}

// Outcome 把错误归类成指标的标签值
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, consumer.ConversionError), errors.Is(err, consumer.ErrDegraded):
		return OutcomeConversionError
	default:
		return OutcomeDatabaseConnectionError
	}
}
