package arena

import (
	"sort"

	"github.com/Versifine/gait/internal/input"
	"github.com/Versifine/gait/internal/physics"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// updateScriptedInput syncs the timeline on the first step and afterwards
// advances it by the previous step's dt, so a step is sampled before it is
// simulated.
func (a *Arena) updateScriptedInput(e *ecs.ECS) {
	ScriptedInput.Each(e.World, func(entry *donburi.Entry) {
		si := ScriptedInput.Get(entry)
		if !si.started {
			si.Driver.Sync()
			si.started = true
		} else {
			si.Driver.Advance(si.lastDt)
		}
		si.lastDt = a.dt
	})
}

func (a *Arena) updateLocomotion(e *ecs.ECS) {
	Character.Each(e.World, func(entry *donburi.Entry) {
		ch := Character.Get(entry)
		cam := input.CameraFromYaw(0)
		if entry.HasComponent(ScriptedInput) {
			cam = ScriptedInput.Get(entry).Driver.Camera()
		}
		ch.Controller.Tick(a.dt, cam)
	})
}

// updatePush separates overlapping characters. Every push is computed from
// the same pre-push positions and applied afterwards.
func (a *Arena) updatePush(e *ecs.ECS) {
	var bodies []*CharacterData
	Character.Each(e.World, func(entry *donburi.Entry) {
		bodies = append(bodies, Character.Get(entry))
	})
	if len(bodies) < 2 {
		return
	}
	sort.Slice(bodies, func(i, j int) bool { return bodies[i].Name < bodies[j].Name })

	positions := make([]physics.Vec3, len(bodies))
	for i, ch := range bodies {
		positions[i] = ch.Body.Position()
	}

	next := make([]physics.Vec3, len(bodies))
	neighbors := make([]physics.Neighbor, 0, len(bodies)-1)
	for i, ch := range bodies {
		neighbors = neighbors[:0]
		for j, other := range bodies {
			if i == j {
				continue
			}
			neighbors = append(neighbors, physics.Neighbor{Position: positions[j], Shape: other.Body.Shape()})
		}
		next[i] = physics.ApplyPush(ch.Body.Shape(), positions[i], a.opts.Store, neighbors)
	}

	for i, ch := range bodies {
		if next[i] != positions[i] {
			ch.Body.SetPosition(next[i])
		}
	}
}

func (a *Arena) updateTransforms(e *ecs.ECS) {
	Character.Each(e.World, func(entry *donburi.Entry) {
		ch := Character.Get(entry)
		tf := Transform.Get(entry)
		tf.Position = ch.Body.Position()
		tf.Yaw = ch.Controller.Last().Yaw
	})
}
