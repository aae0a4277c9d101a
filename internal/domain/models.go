package domain

// Domain contains core models shared across packages.

// Subscription is the summary the bridge extracts from subscription
// documents for downstream events. Fields mirror the remote schema's
// well-known tags; anything else stays in the raw document.
type Subscription struct {
	Reference      string `json:"reference"`
	Status         string `json:"status"`
	ProductName    string `json:"product_name"`
	CustomerEmail  string `json:"customer_email"`
	NextPeriodDate string `json:"next_period_date"`
}
