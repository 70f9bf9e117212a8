package arena

import (
	"fmt"
	"time"
)

// Physics holds every tunable constant of the simulation
type Physics struct {
	// Arena
	BoardSize float64 `yaml:"board_size" json:"board_size"`
	FPS       int     `yaml:"fps" json:"fps"`

	// Movement
	MaxVelocity   float64 `yaml:"max_velocity" json:"max_velocity"`     // percent
	AccelFactor   float64 `yaml:"accel_factor" json:"accel_factor"`     // velocity points per tick
	VelocityScale float64 `yaml:"velocity_scale" json:"velocity_scale"` // arena units per velocity point per second
	TurnThreshold float64 `yaml:"turn_threshold" json:"turn_threshold"` // fraction of MaxVelocity
	RobotDiameter float64 `yaml:"robot_diameter" json:"robot_diameter"`

	// Damage
	MaxDamage       int `yaml:"max_damage" json:"max_damage"`
	CollisionDamage int `yaml:"collision_damage" json:"collision_damage"`

	// Weapons
	CannonCooldown   int             `yaml:"cannon_cooldown" json:"cannon_cooldown"` // ticks
	MaxFireRange     float64         `yaml:"max_fire_range" json:"max_fire_range"`
	MissileStep      float64         `yaml:"missile_step" json:"missile_step"` // max travel per tick
	ExplosionBands   []ExplosionBand `yaml:"explosion_bands" json:"explosion_bands"`
	MaxScanHalfAngle float64         `yaml:"max_scan_half_angle" json:"max_scan_half_angle"` // degrees

	// Sandbox budgets
	RespondTimeout    time.Duration `yaml:"respond_timeout" json:"respond_timeout"`
	InitializeTimeout time.Duration `yaml:"initialize_timeout" json:"initialize_timeout"`
}

// ExplosionBand is one ring of missile splash damage. A robot closer than
// Radius to the blast takes Damage, using the innermost matching band.
type ExplosionBand struct {
	Radius float64 `yaml:"radius" json:"radius"`
	Damage int     `yaml:"damage" json:"damage"`
}

// DefaultPhysics returns the reference tuning
func DefaultPhysics() Physics {
	return Physics{
		BoardSize:        1000,
		FPS:              30,
		MaxVelocity:      100,
		AccelFactor:      10,
		VelocityScale:    1,
		TurnThreshold:    0.5,
		RobotDiameter:    50,
		MaxDamage:        100,
		CollisionDamage:  2,
		CannonCooldown:   10,
		MaxFireRange:     700,
		MissileStep:      40,
		MaxScanHalfAngle: 10,
		ExplosionBands: []ExplosionBand{
			{Radius: 5, Damage: 10},
			{Radius: 20, Damage: 5},
			{Radius: 40, Damage: 3},
		},
		RespondTimeout:    100 * time.Millisecond,
		InitializeTimeout: time.Second,
	}
}

// DeltaTime is the simulated seconds per tick
func (p *Physics) DeltaTime() float64 {
	return 1 / float64(p.FPS)
}

// RobotRadius is half the robot diameter
func (p *Physics) RobotRadius() float64 {
	return p.RobotDiameter / 2
}

// SplashDamage returns the damage dealt to a robot at dist from a blast
func (p *Physics) SplashDamage(dist float64) int {
	for _, band := range p.ExplosionBands {
		if dist < band.Radius {
			return band.Damage
		}
	}
	return 0
}

// Validate checks the physics for values the simulation cannot run with
func (p *Physics) Validate() error {
	if p.BoardSize <= 0 {
		return fmt.Errorf("board_size must be positive")
	}
	if p.FPS <= 0 {
		return fmt.Errorf("fps must be positive")
	}
	if p.MaxVelocity <= 0 {
		return fmt.Errorf("max_velocity must be positive")
	}
	if p.AccelFactor <= 0 {
		return fmt.Errorf("accel_factor must be positive")
	}
	if p.TurnThreshold < 0 || p.TurnThreshold > 1 {
		return fmt.Errorf("turn_threshold must be between 0 and 1")
	}
	if p.RobotDiameter <= 0 || p.RobotDiameter >= p.BoardSize {
		return fmt.Errorf("robot_diameter must be positive and smaller than board_size")
	}
	if p.MaxDamage <= 0 {
		return fmt.Errorf("max_damage must be positive")
	}
	if p.CollisionDamage < 0 {
		return fmt.Errorf("collision_damage cannot be negative")
	}
	if p.CannonCooldown < 0 {
		return fmt.Errorf("cannon_cooldown cannot be negative")
	}
	if p.MissileStep <= 0 {
		return fmt.Errorf("missile_step must be positive")
	}
	if p.MaxFireRange < 0 {
		return fmt.Errorf("max_fire_range cannot be negative")
	}
	if p.MaxScanHalfAngle < 0 || p.MaxScanHalfAngle > 180 {
		return fmt.Errorf("max_scan_half_angle must be between 0 and 180")
	}

	lastRadius, lastDamage := 0.0, 0
	for i, band := range p.ExplosionBands {
		if band.Radius <= lastRadius {
			return fmt.Errorf("explosion band %d: radius must increase outward", i)
		}
		if band.Damage <= 0 {
			return fmt.Errorf("explosion band %d: damage must be positive", i)
		}
		if i > 0 && band.Damage >= lastDamage {
			return fmt.Errorf("explosion band %d: damage must decrease outward", i)
		}
		lastRadius, lastDamage = band.Radius, band.Damage
	}

	if p.RespondTimeout <= 0 {
		return fmt.Errorf("respond_timeout must be positive")
	}
	if p.InitializeTimeout <= 0 {
		return fmt.Errorf("initialize_timeout must be positive")
	}

	return nil
}
