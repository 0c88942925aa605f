package dto

type NotificationResponse struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Title       string  `json:"title"`
	Body        string  `json:"body"`
	ReferenceID *string `json:"reference_id,omitempty"`
	Read        bool    `json:"read"`
	CreatedAt   string  `json:"created_at"`
}
