package types

// Company is a company record as listed to users and administrators.
type Company struct {
	ID          string `json:"_id"`
	Name        string `json:"companyName"`
	Location    string `json:"location"`
	Field       string `json:"field"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
	Approved    bool   `json:"isApproved"`
	Rejected    bool   `json:"isRejected,omitempty"`
	Blocked     bool   `json:"isBlocked"`
	UserID      string `json:"userId,omitempty"`
}

// Pending reports whether the company still awaits an approval decision.
// A rejected company is decided, and a backend that deletes rejected
// companies simply drops it from the list.
func (c Company) Pending() bool {
	return !c.Approved && !c.Rejected
}
