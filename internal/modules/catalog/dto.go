package catalog

type ListProductsQuery struct {
	ShopID int64 `form:"shop_id"`
	Free   bool  `form:"free"`
	Limit  int   `form:"limit,default=15"`
	Page   int   `form:"page,default=1"`
}
