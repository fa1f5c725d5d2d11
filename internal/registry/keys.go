package registry

import (
	"fmt"

	"github.com/horockey/ibp/internal/model"
)

// Numeric ids are zero-padded so that lexical key order matches numeric order.
const (
	countersPrefix       = "counters/"
	servicesPrefix       = "services/"
	membersPrefix        = "members/"
	memberServicesPrefix = "member_services/"
	monitorsPrefix       = "monitors/"
	healthChecksPrefix   = "health_checks/"
	eventsPrefix         = "events/"
)

func counterKey(kind model.EntityKind) string {
	return countersPrefix + string(kind)
}

func serviceKey(id model.ServiceID) string {
	return fmt.Sprintf("%s%010d", servicesPrefix, id)
}

func memberKey(acc model.AccountID) string {
	return membersPrefix + string(acc)
}

func memberServiceKey(id model.MemberServiceID) string {
	return fmt.Sprintf("%s%010d", memberServicesPrefix, id)
}

func monitorKey(acc model.AccountID) string {
	return monitorsPrefix + string(acc)
}

func healthChecksKey(id model.MemberServiceID, acc model.AccountID) string {
	return fmt.Sprintf("%s%010d/%s", healthChecksPrefix, id, acc)
}

func eventKey(seq uint64) string {
	return fmt.Sprintf("%s%020d", eventsPrefix, seq)
}
