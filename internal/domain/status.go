package domain

// Status is the urgency tier of an exam record.
type Status string

const (
	StatusExpired      Status = "EXPIRED"
	StatusExpiringSoon Status = "EXPIRING_SOON"
	StatusCurrent      Status = "CURRENT"
)

// Statuses lists the tiers in display order.
var Statuses = []Status{StatusExpired, StatusExpiringSoon, StatusCurrent}

// Label returns the human readable label shown to operators.
func (s Status) Label() string {
	switch s {
	case StatusExpired:
		return "Vencido"
	case StatusExpiringSoon:
		return "Vence em Breve"
	case StatusCurrent:
		return "Em Dia"
	default:
		return string(s)
	}
}

// Icon returns the glyph paired with the label.
func (s Status) Icon() string {
	switch s {
	case StatusExpired:
		return "🔴"
	case StatusExpiringSoon:
		return "🟡"
	case StatusCurrent:
		return "🟢"
	default:
		return ""
	}
}

// Valid reports whether s is one of the known tiers.
func (s Status) Valid() bool {
	switch s {
	case StatusExpired, StatusExpiringSoon, StatusCurrent:
		return true
	}
	return false
}
