package dto

import "github.com/martijn/clientcrud/internal/core/domain"

// ClientRequest is the body accepted by POST /clients and PUT /clients/:id.
// ID is optional; when set on POST it selects the record to update.
type ClientRequest struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
}

func (r ClientRequest) ToDomain() *domain.Client {
	return &domain.Client{
		ID:      r.ID,
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
		City:    r.City,
	}
}
