package models

// AlertDirection says which side of the target a price must cross.
type AlertDirection string

const (
	DirectionAbove AlertDirection = "above"
	DirectionBelow AlertDirection = "below"
)

// AlertRule is a one-shot price alert. A triggered rule has TriggeredAt set
// and Active false; it stays around until the user removes it.
type AlertRule struct {
	ID          string         `json:"id"`
	Symbol      string         `json:"symbol"`
	Direction   AlertDirection `json:"direction"`
	Target      float64        `json:"target"`
	Active      bool           `json:"active"`
	CreatedAt   int64          `json:"createdAt"` // unix milliseconds
	TriggeredAt *int64         `json:"triggeredAt,omitempty"`
}

// Matches reports whether the quote crosses this rule's threshold. The
// caller is responsible for checking Active and quote validity first.
func (r AlertRule) Matches(q Quote) bool {
	if r.Symbol != q.Symbol {
		return false
	}
	switch r.Direction {
	case DirectionAbove:
		return q.Price >= r.Target
	case DirectionBelow:
		return q.Price <= r.Target
	}
	return false
}

// Notification is emitted once per alert trigger.
type Notification struct {
	RuleID    string         `json:"ruleId"`
	Symbol    string         `json:"symbol"`
	Direction AlertDirection `json:"direction"`
	Target    float64        `json:"target"`
	Price     float64        `json:"price"`
	At        int64          `json:"at"` // unix milliseconds
}
