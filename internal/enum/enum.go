package enum

// Order lifecycle and payment values, ENUM constrained in the database.

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentMethodCash    = "cash"
	PaymentMethodCard    = "card"
	PaymentMethodEwallet = "ewallet"
)

// Display labels, CHECK constrained in the database.

const (
	TableStatusEmpty  = "empty"
	TableStatusBooked = "booked"
	TableStatusActive = "active"
)

const (
	OutletStatusOpen   = "open"
	OutletStatusClosed = "closed"
)

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

const (
	UserRoleAdmin   = "admin"
	UserRoleCashier = "cashier"
)
