package notification

import (
	"fmt"

	"github.com/mihirmehra/employee-management-system/constants"

	"github.com/goccy/go-json"
	"github.com/olahol/melody"
)

type Service interface {
	SendMessage(message string) error
}

type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

// Session keys gán lúc websocket kết nối
const (
	SessionUserID = "userId"
	SessionRole   = "role"
)

// SendMessage gửi event tới đúng người nhận: event có userId chỉ tới session
// của user đó và các session admin/hr, còn lại broadcast cho mọi người.
func (s *MelodyService) SendMessage(message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	var event Event
	if err := json.Unmarshal([]byte(message), &event); err != nil || event.UserID == 0 {
		return s.m.Broadcast([]byte(message))
	}
	return s.m.BroadcastFilter([]byte(message), func(session *melody.Session) bool {
		return Receives(session.Keys, event.UserID)
	})
}

// SendTo chỉ gửi tới các session của một user
func (s *MelodyService) SendTo(userID uint, message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.BroadcastFilter([]byte(message), func(session *melody.Session) bool {
		id, _ := session.Keys[SessionUserID].(uint)
		return id == userID
	})
}

// Receives reports whether a session with the given keys should get an
// event addressed to userID.
func Receives(keys map[string]interface{}, userID uint) bool {
	if id, ok := keys[SessionUserID].(uint); ok && id == userID {
		return true
	}
	role, _ := keys[SessionRole].(string)
	return role == constants.RoleAdmin || role == constants.RoleHR
}

// Event là payload gửi qua websocket
type Event struct {
	Type    string      `json:"type"`
	UserID  uint        `json:"userId"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

const (
	EventLeaveApproved = "leave.approved"
	EventLeaveRejected = "leave.rejected"
	EventSalaryPaid    = "salary.paid"
	EventPayrollRun    = "payroll.run"
	EventAnnouncement  = "announcement"
)

// MessageBuilder dựng event theo từng bước
type MessageBuilder struct {
	event Event
}

func NewMessageBuilder(eventType string, userID uint) *MessageBuilder {
	return &MessageBuilder{event: Event{Type: eventType, UserID: userID}}
}

func (b *MessageBuilder) WithMessage(format string, v ...interface{}) *MessageBuilder {
	b.event.Message = fmt.Sprintf(format, v...)
	return b
}

func (b *MessageBuilder) WithData(data interface{}) *MessageBuilder {
	b.event.Data = data
	return b
}

func (b *MessageBuilder) Build() string {
	payload, err := json.Marshal(b.event)
	if err != nil {
		return b.event.Message
	}
	return string(payload)
}

// Recorder keeps messages in memory instead of broadcasting them.
type Recorder struct {
	Messages []string
}

func (r *Recorder) SendMessage(message string) error {
	r.Messages = append(r.Messages, message)
	return nil
}
