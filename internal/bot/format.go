// Package bot implements the messaging front end: it consumes lookup
// requests from the broker, resolves order hashes through the public
// lookup gateway and publishes formatted replies. The bot never
// exposes the API error taxonomy; it only distinguishes found, not
// found and malformed input.
package bot

import (
	"fmt"
	"strings"

	"github.com/superpizzeria/order-service/internal/model"
)

// HelpText is the reply to the /start command.
const HelpText = "Hi! Send me your order tracking code and I will show its status.\n" +
	"For example: 5fc32595e9194cad804dced3038942b4"

// NotFoundText is the reply for a hash that resolves to no order.
const NotFoundText = "Order not found."

// FormatOrder renders an order as a chat reply: header with ID and
// status, then one line per item.
func FormatOrder(o *model.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order ID: %d\n", o.ID)
	fmt.Fprintf(&b, "Status: %s\n", o.Status)
	b.WriteString("Items:")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "\n  - %s, quantity: %d", it.PizzaName, it.Quantity)
	}
	return b.String()
}
