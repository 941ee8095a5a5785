package workflow

// Status is a project workflow label. The label set is served by the backend
// as configuration; the constants below are the canonical defaults used to
// seed the catalog and as a fallback when the catalog is unavailable.
type Status = string

const (
	StatusSent       Status = "Sent"
	StatusProcessing Status = "Processing"
	StatusInterface1 Status = "Directed to Interface 1"
	StatusInterface2 Status = "Directed to Interface 2"
	StatusInterface3 Status = "Directed to Interface 3"
	StatusRejected   Status = "Rejected"
)

// DefaultStatuses returns the canonical ordered label set.
func DefaultStatuses() []Status {
	return []Status{
		StatusSent,
		StatusProcessing,
		StatusInterface1,
		StatusInterface2,
		StatusInterface3,
		StatusRejected,
	}
}

// ValidStatus reports whether label appears in the catalog. There is no
// transition graph: any catalog label is reachable from any other, provided
// the actor passes the role gate. Only membership is checked.
func ValidStatus(label Status, catalog []Status) bool {
	for _, candidate := range catalog {
		if candidate == label {
			return true
		}
	}
	return false
}
