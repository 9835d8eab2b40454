package bookingclient

type Slots struct {
	ScopeID  string   `json:"scope_id"`
	Date     string   `json:"date"`
	Duration int      `json:"duration"`
	Slots    []string `json:"slots"`
}

type BookRequest struct {
	ClientName      string `json:"client_name"`
	ClientEmail     string `json:"client_email"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	InvitationToken string `json:"invitation_token,omitempty"`
}

type Booking struct {
	ID               string  `json:"id"`
	ScopeID          string  `json:"scope_id"`
	ClientName       string  `json:"client_name"`
	ClientEmail      string  `json:"client_email"`
	Date             string  `json:"date"`
	StartTime        string  `json:"start_time"`
	EndTime          string  `json:"end_time"`
	Status           string  `json:"status"`
	CancelReason     *string `json:"cancel_reason,omitempty"`
	CancelledAt      string  `json:"cancelled_at,omitempty"`
	RescheduledCount int     `json:"rescheduled_count"`
}

// Result is a committed write. Warnings report side effects (event publishing) that failed
// after the booking was stored.
type Result struct {
	Booking  Booking  `json:"booking"`
	Warnings []string `json:"warnings,omitempty"`
}

type Created struct {
	Result
	AccessCode string `json:"access_code"`
}

type availability struct {
	Available bool `json:"available"`
}

type envelope[T any] struct {
	Data *T `json:"data"`
}

type errorBody struct {
	Error   *string `json:"error"`
	Message *string `json:"message"`
	Kind    string  `json:"kind"`
}
