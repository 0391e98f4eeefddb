package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialGroupsAdmin(t *testing.T) {
	groups := InitialGroups(testIdentity("42", "admin"), nil)
	assert.Equal(t, []string{"Admins", "user:42"}, groups)
}

func TestInitialGroupsUserWithTopics(t *testing.T) {
	prefs := []TopicPreference{
		{Topic: "weather:houston", Subscribed: true},
		{Topic: "case-updates", Subscribed: false},
		{Topic: "safety", Subscribed: true},
	}
	groups := InitialGroups(testIdentity("7", "user"), prefs)
	assert.Equal(t, []string{"Users", "user:7", "topic:weather:houston", "topic:safety"}, groups)
}

func TestRouterJoinIsolation(t *testing.T) {
	r := NewRouter()
	r.Join("c1", "g1")
	r.Join("c2", "g2")

	assert.ElementsMatch(t, []string{"c1"}, r.Members("g1"))
	assert.ElementsMatch(t, []string{"c2"}, r.Members("g2"))
	assert.Empty(t, r.Members("g3"))
}

func TestRouterManyToMany(t *testing.T) {
	r := NewRouter()
	r.Join("c1", "g1")
	r.Join("c1", "g2")
	r.Join("c2", "g1")

	assert.ElementsMatch(t, []string{"c1", "c2"}, r.Members("g1"))
	assert.ElementsMatch(t, []string{"c1"}, r.Members("g2"))
}

func TestRouterLeaveNotMemberIsNoop(t *testing.T) {
	r := NewRouter()
	r.Join("c1", "g1")

	r.Leave("c1", "never-joined")
	r.Leave("c2", "g1")
	assert.ElementsMatch(t, []string{"c1"}, r.Members("g1"))
}

func TestRouterLeaveAll(t *testing.T) {
	r := NewRouter()
	r.Join("c1", "g1")
	r.Join("c1", "g2")
	r.Join("c2", "g1")

	left := r.LeaveAll("c1")
	require.ElementsMatch(t, []string{"g1", "g2"}, left)

	assert.ElementsMatch(t, []string{"c2"}, r.Members("g1"))
	assert.Empty(t, r.Members("g2"))

	// A second pass has nothing left to clean.
	assert.Empty(t, r.LeaveAll("c1"))
}

func TestGroupNameHelpers(t *testing.T) {
	assert.Equal(t, "user:42", UserGroup("42"))
	assert.Equal(t, "topic:weather:houston", TopicGroup("weather:houston"))
}
