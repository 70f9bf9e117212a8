package arena

// Round is the replay snapshot of a board after a tick
type Round struct {
	Number   int                    `json:"round" yaml:"round"`
	Robots   map[int]RobotInRound   `json:"robots" yaml:"robots"`
	Missiles map[int]MissileInRound `json:"missiles" yaml:"missiles"`
}

// RobotInRound is a live robot inside a Round, keyed by board id
type RobotInRound struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Damage int     `json:"dmg" yaml:"dmg"`
}

// MissileInRound is a missile inside a Round, keyed by missile id. Missiles
// that detonated during the tick are included once with Exploding set.
type MissileInRound struct {
	Sender    int     `json:"sender" yaml:"sender"`
	X         float64 `json:"x" yaml:"x"`
	Y         float64 `json:"y" yaml:"y"`
	Exploding bool    `json:"exploding" yaml:"exploding"`
}
