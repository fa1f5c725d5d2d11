package model

type (
	AccountID       string
	ServiceID       uint32
	MemberID        uint32
	MemberServiceID uint32
)

// EntityKind names a registry. Counter-backed kinds own an id sequence.
type EntityKind string

const (
	KindService       EntityKind = "service"
	KindMember        EntityKind = "member"
	KindMemberService EntityKind = "member_service"
	KindMonitor       EntityKind = "monitor"
	KindHealthCheck   EntityKind = "health_check"
	KindEvent         EntityKind = "event"
)
