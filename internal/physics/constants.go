package physics

const (
	GroundProbeDistance    = 0.001
	CollisionAxisTolerance = 1e-9

	DefaultWidth  = 0.6
	DefaultDepth  = 0.6
	DefaultHeight = 1.8

	pushMaxPerCharacter = 0.08
	pushMaxPerTick      = 0.12
	pushStrength        = 0.7
)
