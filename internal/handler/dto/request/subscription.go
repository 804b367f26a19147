package request

type PurchaseSubscriptionRequest struct {
	Quantity      int64          `json:"quantity" binding:"required,gt=0"`
	ExpectedTotal int64          `json:"expected_total" binding:"required,gt=0"`
	Filters       FiltersRequest `json:"filters"`
}
