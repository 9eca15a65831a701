package simulation

import (
	"github.com/lao-tseu-is-alive/go-spatial-partition/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-spatial-partition/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-spatial-partition/pkg/spatial"
)

// Team tells enemies from friendlies. Both teams share one representation;
// only the side that issues queries differs.
type Team int

const (
	TeamEnemy Team = iota
	TeamFriendly
)

func (t Team) String() string {
	if t == TeamEnemy {
		return "enemy"
	}
	return "friendly"
}

// Agent is one soldier. ID is its index within its team, so enemy ids are
// also the ids registered in the grid.
type Agent struct {
	ID   int
	Team Team
	Pos  geometry.Vector2D

	wander behavior.Wanderer // enemies only
}

// EnemyID implements spatial.Positioned.
func (a *Agent) EnemyID() spatial.ID { return spatial.ID(a.ID) }

// Position implements spatial.Positioned.
func (a *Agent) Position() geometry.Vector2D { return a.Pos }

// AgentState is the immutable view of an agent handed to presentation.
type AgentState struct {
	ID      int
	Team    Team
	Pos     geometry.Vector2D
	Closest bool       // enemy: some friendly's nearest enemy this step
	Target  spatial.ID // friendly: enemy being chased, spatial.NoID if none
}

func (a *Agent) state() AgentState {
	return AgentState{ID: a.ID, Team: a.Team, Pos: a.Pos, Target: spatial.NoID}
}
