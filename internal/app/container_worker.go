package app

import (
	"go.uber.org/dig"

	"order-consolidation/internal/config"
	"order-consolidation/internal/logx"
	"order-consolidation/internal/service/orders"
	"order-consolidation/internal/transport/kafka"
)

func newProcessor(svc *orders.Service, logger logx.Logger) *orders.Processor {
	return orders.NewProcessor(svc, logger.With(logx.String("component", "orders-processor")))
}

func newOrdersHandleFunc(p *orders.Processor) kafka.HandleFunc {
	return makeOrdersKafka(p, orderEventTimeout)
}

func newConsumer(cfg *config.Config, logger logx.Logger, h kafka.HandleFunc) (*kafka.Consumer, error) {
	k := cfg.Kafka
	return kafka.NewConsumer(logger, k.Brokers, k.GroupID, k.OrdersTopic, h)
}

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		newProcessor,
		newOrdersHandleFunc,
		newConsumer,
	)
}
