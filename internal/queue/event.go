// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names used by this service. All queues are declared durable.
const (
	// OrderCreatedQueue receives an event per successfully placed order.
	OrderCreatedQueue = "order.created"
	// LookupRequestQueue carries inbound messages from the bot transport.
	LookupRequestQueue = "orders.lookup"
	// LookupReplyQueue carries formatted replies back to the bot transport.
	LookupReplyQueue = "orders.reply"
)

// OrderCreatedEvent is published when an order is successfully
// created. It contains enough information for downstream consumers
// to log, notify, or trigger analytics without querying the primary
// database.
type OrderCreatedEvent struct {
	OrderID   uint64  `json:"order_id"`
	OrderHash string  `json:"order_hash"`
	UserID    uint64  `json:"user_id"`
	Status    string  `json:"status"`
	ItemCount int     `json:"item_count"`
	Total     float64 `json:"total"`
	CreatedAt string  `json:"created_at"`
}

// LookupRequest is an inbound message from the messaging front end.
// Text is either the "/start" command or free text expected to
// contain an order hash.
type LookupRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// LookupReply is the formatted answer sent back to the chat that
// asked. The transport on the other side only needs to forward Text
// verbatim.
type LookupReply struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}
