package rabbitmq

// QueueConfig связка очереди с ключом маршрутизации биллингового обмена.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

const (
	// ChargeRoutingKey ключ маршрутизации событий начислений.
	ChargeRoutingKey = "charge"
	// ChargeQueueName очередь начислений воркера инвойсов.
	ChargeQueueName = "billing.invoice_charges"
)

// GetBillingQueues возвращает очереди воркера инвойсов.
func GetBillingQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: ChargeQueueName, RoutingKey: ChargeRoutingKey},
	}
}
