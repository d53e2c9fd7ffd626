package models

// Entity names a collection owned by the store. Change notifications carry
// the entities a mutation touched.
type Entity string

const (
	EntityProducts     Entity = "products"
	EntitySales        Entity = "sales"
	EntityCreditors    Entity = "creditors"
	EntityExpenses     Entity = "expenses"
	EntityRestockItems Entity = "restock_items"
	EntityPayments     Entity = "payments"
)

// AllEntities lists every collection in dependency order
var AllEntities = []Entity{
	EntityProducts,
	EntitySales,
	EntityCreditors,
	EntityExpenses,
	EntityRestockItems,
	EntityPayments,
}
