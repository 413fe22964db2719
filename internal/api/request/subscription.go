package request

type CreateSubscription struct {
	PlanID string `json:"plan_id" validate:"required"`
	Kind   string `json:"kind" validate:"required,oneof=initial renewal upgrade"`
}

// AttachSubscriptionProof records the payment proof file. The file either
// rides along base64-encoded or was uploaded out of band, in which case only
// its name and size are declared.
type AttachSubscriptionProof struct {
	FileName      string `json:"file_name" validate:"required"`
	FileSizeBytes int64  `json:"file_size_bytes" validate:"required_without=ContentBase64,omitempty,gt=0"`
	ContentBase64 string `json:"content_base64" validate:"omitempty,base64"`
}

type RejectSubscription struct {
	Reason string `json:"reason" validate:"required"`
}
