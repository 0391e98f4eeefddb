package realtime

import "time"

// UserHub serves end-user sessions. Any authenticated role may
// connect; there are no peer notices (users do not see each other's
// presence). Its operations are server-initiated pushes targeted at a
// single user's group, so every open tab of that user receives them.
type UserHub struct {
	*Hub
}

func NewUserHub(subs SubscriptionSource, window time.Duration) *UserHub {
	return &UserHub{NewHub(HubConfig{
		Name:         "user",
		WelcomeEvent: "Welcome",
	}, subs, window)}
}

// SendCaseUpdate pushes a case status change to one user.
func (h *UserHub) SendCaseUpdate(userID string, ev ChangeEvent) {
	h.Broadcast(UserGroup(userID), "CaseUpdate", ev)
}

// SendProfileUpdate pushes a profile mutation to one user.
func (h *UserHub) SendProfileUpdate(userID string, ev ChangeEvent) {
	h.Broadcast(UserGroup(userID), "ProfileUpdate", ev)
}

// SendSafetyCheckReminder nudges one user's open sessions.
func (h *UserHub) SendSafetyCheckReminder(userID string, ev ChangeEvent) {
	h.Broadcast(UserGroup(userID), "SafetyCheckReminder", ev)
}

// SendSystemNotification pushes to every connected user.
func (h *UserHub) SendSystemNotification(ev ChangeEvent) {
	h.Broadcast(GroupUsers, "SystemNotification", ev)
}
