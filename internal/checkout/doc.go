// Package checkout turns a cart into an order handed to the shop's chat.
//
// The checkout flow validates the customer's contact form, renders the order
// message from the cart engine, records the order, builds the WhatsApp deep
// link with the message pre-filled, and finally clears the cart. The cart is
// cleared only after the order has been recorded.
//
// The package also holds the quantity helpers UI callers use before calling
// the engine: stepping quantities to 0.25m and checking stock limits, which
// the engine itself never enforces.
package checkout
