package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	metricCycles = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "car_monitor",
		Subsystem: "scanner",
		Name:      "cycles_total",
		Help:      "Завершённые циклы сканирования.",
	})

	metricExtracted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "car_monitor",
		Subsystem: "scanner",
		Name:      "listings_extracted_total",
		Help:      "Объявления, извлечённые из источников.",
	}, []string{"source"})

	metricSourceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "car_monitor",
		Subsystem: "scanner",
		Name:      "source_errors_total",
		Help:      "Ошибки опроса источников.",
	}, []string{"source"})

	metricNotifications = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "car_monitor",
		Subsystem: "scanner",
		Name:      "notifications_total",
		Help:      "Отправленные уведомления.",
	})
)
