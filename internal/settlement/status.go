package settlement

// Status is the payment state of a DepositTransaction, following the processor's
// post-payment events: pending -> completed -> succeeded | failed.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

var statuses = []Status{StatusPending, StatusCompleted, StatusSucceeded, StatusFailed}

func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusCompleted:
		return 1
	case StatusSucceeded, StatusFailed:
		return 2
	}

	return -1
}

func (s Status) Valid() bool { return s.rank() >= 0 }

// LineStatus is the stock state of a line item. The two closed variants record why
// the copies left the seller: sold out or returned to the supplier.
type LineStatus string

const (
	LineTransit        LineStatus = "transit"
	LineUsable         LineStatus = "usable"
	LineClosedSold     LineStatus = "closed_sold"
	LineClosedReturned LineStatus = "closed_returned"
)

var lineStatuses = []LineStatus{LineTransit, LineUsable, LineClosedSold, LineClosedReturned}

func (s LineStatus) rank() int {
	switch s {
	case LineTransit:
		return 0
	case LineUsable:
		return 1
	case LineClosedSold, LineClosedReturned:
		return 2
	}

	return -1
}

func (s LineStatus) Valid() bool { return s.rank() >= 0 }

// Closed reports whether the line reached either closed variant.
func (s LineStatus) Closed() bool { return s.rank() == 2 }

// PaymentStatus tracks whether the seller paid for a line item.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

var paymentStatuses = []PaymentStatus{PaymentPending, PaymentPaid}

func (s PaymentStatus) rank() int {
	switch s {
	case PaymentPending:
		return 0
	case PaymentPaid:
		return 1
	}

	return -1
}

func (s PaymentStatus) Valid() bool { return s.rank() >= 0 }

// Transition classifies a requested state change.
type Transition int

const (
	// TransitionNone: already in the requested state.
	TransitionNone Transition = iota
	// TransitionForward: a legal step ahead.
	TransitionForward
	// TransitionStale: the row is already past the requested state (a late or
	// reordered event). Ignored.
	TransitionStale
	// TransitionInvalid: a move between two terminal states, or an unknown state.
	TransitionInvalid
)

type state interface {
	~string
	rank() int
}

// Classify returns how moving from cur to next would be treated.
func Classify[S state](cur, next S) Transition {
	switch {
	case cur.rank() < 0 || next.rank() < 0:
		return TransitionInvalid
	case cur == next:
		return TransitionNone
	case next.rank() > cur.rank():
		return TransitionForward
	case next.rank() < cur.rank():
		return TransitionStale
	}

	return TransitionInvalid
}

// Predecessors lists the states from which next is a forward step. Stores use it
// to guard their UPDATE so racing writers cannot move a row backwards.
func Predecessors[S state](all []S, next S) []string {
	var from []string

	for _, s := range all {
		if Classify(s, next) == TransitionForward {
			from = append(from, string(s))
		}
	}

	return from
}

func (s Status) Predecessors() []string        { return Predecessors(statuses, s) }
func (s LineStatus) Predecessors() []string    { return Predecessors(lineStatuses, s) }
func (s PaymentStatus) Predecessors() []string { return Predecessors(paymentStatuses, s) }
