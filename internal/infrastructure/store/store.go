// Package store implements the domain repository interfaces over the
// external record store.
package store

// Collection names in the record store.
const (
	collProducts   = "products"
	collSuppliers  = "suppliers"
	collStocks     = "stocks"
	collReceptions = "receptions"
	collOrders     = "orders"
	collWriteOffs  = "writeoffs"
)
