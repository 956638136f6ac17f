package domain

// Stats is a point-in-time view of the relay, used by health monitoring.
type Stats struct {
	Participants int
	HistorySize  int
}
