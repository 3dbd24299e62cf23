package arena

import (
	"github.com/Versifine/gait/internal/animation"
	"github.com/Versifine/gait/internal/controller"
	"github.com/Versifine/gait/internal/input"
	"github.com/Versifine/gait/internal/physics"
	"github.com/Versifine/gait/internal/scenario"
	"github.com/yohamta/donburi"
)

type CharacterData struct {
	Name       string
	Controller *controller.Controller
	Body       *physics.Body
	Animator   *animation.Recorder
	// Manual is the input source for characters spawned without a timeline.
	Manual *input.Manual
}

type TransformData struct {
	Position physics.Vec3
	Yaw      float64
}

type ScriptedInputData struct {
	Driver  *scenario.Driver
	started bool
	lastDt  float64
}

var (
	Character     = donburi.NewComponentType[CharacterData]()
	Transform     = donburi.NewComponentType[TransformData]()
	ScriptedInput = donburi.NewComponentType[ScriptedInputData]()
)
