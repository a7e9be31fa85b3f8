package ledgerapi

// Expense is a recorded expense. Date uses the "YYYY-MM-DD HH:MM" layout.
type Expense struct {
	ID          string             `json:"id,omitempty"`
	Date        string             `json:"date"`
	Total       float64            `json:"total"`
	Payer       string             `json:"payer"`
	Shares      map[string]float64 `json:"shares"`
	Description string             `json:"description"`
}

// Settlement is a recorded payment from one member to another.
type Settlement struct {
	ID     string  `json:"id,omitempty"`
	Date   string  `json:"date"`
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// MemberBalance is one member's net position. Status is "gets", "owes" or
// "settled".
type MemberBalance struct {
	Member  string  `json:"member"`
	Balance float64 `json:"balance"`
	Status  string  `json:"status"`
}

// Transfer is one payment instruction of a settlement plan.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type ListMembersRequest struct{}

type ListMembersResponse struct {
	Members []string `json:"members"`
}

type AddMemberRequest struct {
	Name string `json:"name"`
}

type AddMemberResponse struct {
	// Member is the normalized name that was stored.
	Member string `json:"member"`
}

type RemoveMemberRequest struct {
	Name string `json:"name"`
}

type RemoveMemberResponse struct{}

// RecordExpenseRequest describes a new expense. In "equal" mode only the
// keys of Shares matter; in "unequal" mode the values are percentages that
// must sum to 100.
type RecordExpenseRequest struct {
	Total       float64            `json:"total"`
	Payer       string             `json:"payer"`
	SplitMode   string             `json:"split_mode"`
	Shares      map[string]float64 `json:"shares"`
	Description string             `json:"description,omitempty"`
}

type RecordExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type GetBalancesRequest struct{}

type GetBalancesResponse struct {
	// Balances are ordered largest credit first.
	Balances []MemberBalance `json:"balances"`
}

type GetSummaryRequest struct{}

type GetSummaryResponse struct {
	TotalOwed   float64 `json:"total_owed"`
	TotalDue    float64 `json:"total_due"`
	MemberCount int     `json:"member_count"`
}

type SettleUpRequest struct{}

type SettleUpResponse struct {
	Transfers []Transfer `json:"transfers"`
	Total     float64    `json:"total"`
}

type GetHistoryRequest struct {
	// Limit caps each log. Zero means the server default.
	Limit int `json:"limit,omitempty"`
}

type GetHistoryResponse struct {
	Expenses    []Expense    `json:"expenses"`
	Settlements []Settlement `json:"settlements"`
}

type ResetRequest struct {
	// Confirm must be true; a reset cannot be undone.
	Confirm bool `json:"confirm"`
}

type ResetResponse struct{}
