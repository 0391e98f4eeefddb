package realtime

import "sync"

// Group names are convention-encoded strings. All formatting lives
// here so the per-user variants seen across front-ends stay unified.
const (
	GroupAdmins = "Admins"
	GroupUsers  = "Users"
)

func UserGroup(userID string) string { return "user:" + userID }

func TopicGroup(topic string) string { return "topic:" + topic }

// TopicPreference is one row of the external subscription store as the
// router consumes it.
type TopicPreference struct {
	Topic      string
	Subscribed bool
}

// InitialGroups computes the groups a freshly authenticated connection
// joins: its role-wide group, its per-identity group, and one topic
// group per active subscription.
func InitialGroups(ident Identity, prefs []TopicPreference) []string {
	groups := make([]string, 0, 2+len(prefs))
	if ident.IsAdmin() {
		groups = append(groups, GroupAdmins)
	} else {
		groups = append(groups, GroupUsers)
	}
	groups = append(groups, UserGroup(ident.UserID))
	for _, p := range prefs {
		if p.Subscribed {
			groups = append(groups, TopicGroup(p.Topic))
		}
	}
	return groups
}

// Router tracks group membership both ways: group → connections for
// broadcast resolution, connection → groups for disconnect cleanup.
// Groups are created implicitly on first join.
type Router struct {
	mu     sync.RWMutex
	groups map[string]map[string]struct{}
	byConn map[string]map[string]struct{}
}

func NewRouter() *Router {
	return &Router{
		groups: make(map[string]map[string]struct{}),
		byConn: make(map[string]map[string]struct{}),
	}
}

func (r *Router) Join(connID, group string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.groups[group]
	if set == nil {
		set = make(map[string]struct{})
		r.groups[group] = set
	}
	set[connID] = struct{}{}

	mine := r.byConn[connID]
	if mine == nil {
		mine = make(map[string]struct{})
		r.byConn[connID] = mine
	}
	mine[group] = struct{}{}
}

// Leave is a no-op when the connection was never in the group.
func (r *Router) Leave(connID, group string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(connID, group)
}

// LeaveAll removes the connection from every group it was in and
// returns those groups. Called on disconnect so no group keeps a
// dangling member.
func (r *Router) LeaveAll(connID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	mine, ok := r.byConn[connID]
	if !ok {
		return nil
	}
	left := make([]string, 0, len(mine))
	for group := range mine {
		left = append(left, group)
		r.leaveLocked(connID, group)
	}
	return left
}

// Members returns a copy of the group's current membership. Callers
// send outside the lock.
func (r *Router) Members(group string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.groups[group]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

func (r *Router) leaveLocked(connID, group string) {
	if set, ok := r.groups[group]; ok {
		delete(set, connID)
		if len(set) == 0 {
			delete(r.groups, group)
		}
	}
	if mine, ok := r.byConn[connID]; ok {
		delete(mine, group)
		if len(mine) == 0 {
			delete(r.byConn, connID)
		}
	}
}
