package models

// All returns every model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&UserModel{},
		&AddressModel{},
		&CategoryModel{},
		&BrandModel{},
		&ProductModel{},
		&ReviewModel{},
		&InventoryModel{},
		&StockMovementModel{},
		&CartItemModel{},
		&DiscountModel{},
		&DiscountUsageModel{},
		&OrderModel{},
		&OrderItemModel{},
		&PaymentModel{},
		&ArticleModel{},
		&BannerModel{},
		&TicketModel{},
		&WarrantyRequestModel{},
		&OutboxEntryModel{},
	}
}
