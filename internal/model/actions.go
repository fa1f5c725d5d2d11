package model

type ActionKind string

const (
	ActionRegisterService       ActionKind = "register_service"
	ActionRegisterMember        ActionKind = "register_member"
	ActionRegisterMemberService ActionKind = "register_member_service"
	ActionRegisterMonitor       ActionKind = "register_monitor"
	ActionSubmitHealthCheck     ActionKind = "submit_health_check"
	ActionMint                  ActionKind = "mint"
)

var ActionKinds = []ActionKind{
	ActionRegisterService,
	ActionRegisterMember,
	ActionRegisterMemberService,
	ActionRegisterMonitor,
	ActionSubmitHealthCheck,
	ActionMint,
}

type Action interface {
	Kind() ActionKind
}

type RegisterService struct {
	ServiceKind ServiceKind `json:"kind"`
	Name        string      `json:"name"`
	URLPath     string      `json:"url_path"`
}

type RegisterMember struct {
	Name string `json:"name"`
}

type RegisterMemberService struct {
	ServiceID ServiceID `json:"service_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Port      uint16    `json:"port"`
}

type RegisterMonitor struct {
	Target AccountID `json:"target,omitempty"`
	Name   string    `json:"name"`
}

type SubmitHealthCheck struct {
	MemberServiceID MemberServiceID `json:"member_service_id"`
	Timestamp       uint64          `json:"timestamp"`
	Status          bool            `json:"status"`
	ResponseTimeMs  uint32          `json:"response_time_ms"`
}

type Mint struct{}

func (RegisterService) Kind() ActionKind       { return ActionRegisterService }
func (RegisterMember) Kind() ActionKind        { return ActionRegisterMember }
func (RegisterMemberService) Kind() ActionKind { return ActionRegisterMemberService }
func (RegisterMonitor) Kind() ActionKind       { return ActionRegisterMonitor }
func (SubmitHealthCheck) Kind() ActionKind     { return ActionSubmitHealthCheck }
func (Mint) Kind() ActionKind                  { return ActionMint }

// Call is one entry of the ordered action log.
type Call struct {
	Origin Origin
	Action Action
}

// Receipt describes a committed action. ID is set for actions that allocate one.
type Receipt struct {
	Kind   ActionKind
	ID     *uint32
	Events []EventRecord
}
