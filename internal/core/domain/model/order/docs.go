// Package order provides the customer order read model of the tracking service.
//
// Orders are owned by the store's order system and are only read here. The
// package includes:
//   - Order: the order header (store, order number, customer, transaction id,
//     total, date) with its line items, restored from storage
//   - Item: one order line
//   - Key: the (store, order) pair that identifies an order for a customer
//   - CurrentStatus: the single label/timestamp pair summarizing an order's
//     latest known state, and the status labels the service emits
//
// Key business rules:
//   - An order must have a store, an order number and a customer identifier
//   - The transaction id correlates the order with its local history and the
//     provider feeds; an order without one can only report local status
//   - Totals and unit prices are integer cents; quantities are milli-units
//
// Orders are restored through RestoreOrder so that every instance handed to the
// application layer has passed validation.
package order
