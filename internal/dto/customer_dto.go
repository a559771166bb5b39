package dto

type CreateCustomerRequest struct {
	Name  string  `json:"name"  validate:"required"`
	Phone string  `json:"phone" validate:"required,min=6"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type CustomerResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Phone  string  `json:"phone"`
	Email  *string `json:"email"`
	Points int     `json:"points"`
}
