package constants

const (
	RoutingKeyOrderSubmitted = "storefront.order.submitted"

	EventTypeOrderSubmitted    = "OrderSubmittedEvent"
	EventVersionOrderSubmitted = "1.0.0"
)
