package repository

// CustomerListFilter 查询客户列表的过滤条件
type CustomerListFilter struct {
	Page          int
	PageSize      int
	Search        string
	SortColumn    string
	SortDirection string
}

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page     int
	PageSize int
	Search   string
	Type     string
}

// InventoryListFilter 查询库存台账列表的过滤条件
type InventoryListFilter struct {
	Page      int
	PageSize  int
	ProductID uint
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page       int
	PageSize   int
	Search     string
	Status     string
	CustomerID uint
}
