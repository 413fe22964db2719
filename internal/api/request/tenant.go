package request

type RegisterTenant struct {
	Name           string `json:"name" validate:"required,min=2,max=120"`
	RegistrationNo string `json:"registration_no" validate:"required,regno"`
	ContactEmail   string `json:"contact_email" validate:"required,email"`
	ContactPhone   string `json:"contact_phone" validate:"omitempty,min=6,max=20"`
}

type RejectTenant struct {
	Reason string `json:"reason" validate:"required"`
}

type RequestTenantDeletion struct {
	Reason string `json:"reason" validate:"required"`
}
