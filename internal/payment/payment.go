package payment

// Status is the payment lifecycle state. Wire values match the payment
// service's enum. Transitions only ever move forward:
// CREATED -> PROCESSING -> {ACCEPTED, REJECTED}.
type Status int

const (
	StatusAccepted   Status = 1
	StatusRejected   Status = 2
	StatusProcessing Status = 3
	StatusCreated    Status = 4
)

// ItemType identifies what a payment line item is for.
type ItemType int

const (
	ItemTypeTrainingPlan ItemType = 1
)

type User struct {
	TelegramID int64 `json:"telegram_id"`
}

type Item struct {
	Price          float64  `json:"price"`
	ItemType       ItemType `json:"item_type"`
	TrainingPlanID string   `json:"training_plan_id,omitempty"`
}

// Payment is the record owned by the payment service. ID is empty until the
// service assigns one on creation.
type Payment struct {
	ID     string `json:"id,omitempty"`
	User   User   `json:"user"`
	Items  []Item `json:"items"`
	Status Status `json:"status,omitempty"`
}
