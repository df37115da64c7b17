package domain

// NoData is shown in place of a missing catalog value.
const NoData = "нет данных"

// BrokerEntry is a read-only catalog record describing how to unsubscribe
// from a service.
type BrokerEntry struct {
	Index           int
	Name            string
	UnsubscribeLink string
	Email           string
	Phone           string
}
