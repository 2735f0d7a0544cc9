package domain

// CustomerInfo only exists while a checkout is being submitted.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}
