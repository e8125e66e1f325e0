// Package queries contains the read operations of the tracking service.
//
// Every query follows the same pattern: a query value built through its
// constructor (guarded against zero-value use), and a handler whose Handle
// method loads orders and local history in one read session, then reconciles
// them with the provider feeds through an OrderReconciler.
package queries
