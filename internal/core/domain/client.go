package domain

// Client is a customer record. ID is assigned by the store on insert; a zero
// ID marks a record that has not been persisted yet.
type Client struct {
	ID      int64  `db:"id" json:"id,omitempty"`
	Name    string `db:"name" json:"name"`
	Email   string `db:"email" json:"email"` // unique across all clients
	Phone   string `db:"phone" json:"phone"`
	Address string `db:"address" json:"address"`
	City    string `db:"city" json:"city"`
}

func NewClient(name, email, phone, address, city string) *Client {
	return &Client{
		Name:    name,
		Email:   email,
		Phone:   phone,
		Address: address,
		City:    city,
	}
}

// IsNew reports whether the client still needs an identifier from the store.
func (c *Client) IsNew() bool {
	return c.ID == 0
}
