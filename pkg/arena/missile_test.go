package arena

import (
	"testing"

	"github.com/picogrid/robot-arena/pkg/geometry"
)

func TestMissileAdvance(t *testing.T) {
	phys := testPhysics()
	m := newMissile(phys, 0, geometry.Vec2{X: 100, Y: 500}, 0, 100)

	want := []struct {
		x         float64
		remaining float64
	}{
		{x: 140, remaining: 60},
		{x: 180, remaining: 20},
		{x: 200, remaining: 0},
	}

	for i, w := range want {
		m.advance()
		if !approx(m.Position().X, w.x) || m.Remaining() != w.remaining {
			t.Fatalf("step %d: x=%v remaining=%v, want x=%v remaining=%v",
				i+1, m.Position().X, m.Remaining(), w.x, w.remaining)
		}
	}
}

func TestMissileLeavingArenaStops(t *testing.T) {
	phys := testPhysics()
	m := newMissile(phys, 0, geometry.Vec2{X: 990, Y: 500}, 0, 100)

	m.advance()

	if m.Remaining() != 0 {
		t.Errorf("remaining = %v, want 0 after leaving the arena", m.Remaining())
	}
	if !approx(m.Position().X, 1030) {
		t.Errorf("x = %v, want 1030", m.Position().X)
	}
}

func TestMissileExplosionBands(t *testing.T) {
	phys := testPhysics()
	blast := geometry.Vec2{X: 500, Y: 500}

	robots := []*Robot{
		newRobot(phys, "center", 0, nil, blast),
		newRobot(phys, "inner", 1, nil, geometry.Vec2{X: 510, Y: 500}),
		newRobot(phys, "outer", 2, nil, geometry.Vec2{X: 500, Y: 530}),
		newRobot(phys, "clear", 3, nil, geometry.Vec2{X: 550, Y: 500}),
		newRobot(phys, "edge", 4, nil, geometry.Vec2{X: 540, Y: 500}),
	}
	want := map[string]int{"center": 10, "inner": 5, "outer": 3, "clear": 0, "edge": 0}

	m := newMissile(phys, 9, blast, 0, 0)
	if !m.explode(robots) {
		t.Fatal("missile with no distance left should detonate")
	}

	for _, r := range robots {
		if r.Damage() != want[r.ID()] {
			t.Errorf("%s: damage = %d, want %d", r.ID(), r.Damage(), want[r.ID()])
		}
	}

	if m.explode(robots) {
		t.Errorf("missile detonated twice")
	}
	if robots[0].Damage() != 10 {
		t.Errorf("second explode call applied damage again")
	}
}

func TestMissileInFlightDoesNotExplode(t *testing.T) {
	phys := testPhysics()
	r := newRobot(phys, "a", 0, nil, geometry.Vec2{X: 500, Y: 500})
	m := newMissile(phys, 1, geometry.Vec2{X: 500, Y: 500}, 0, 100)

	if m.explode([]*Robot{r}) {
		t.Fatal("missile with distance left detonated")
	}
	if m.Exploded() || r.Damage() != 0 {
		t.Errorf("in-flight missile had side effects")
	}
}

func TestSplashDamage(t *testing.T) {
	phys := testPhysics()

	tests := []struct {
		dist float64
		want int
	}{
		{0, 10},
		{4.99, 10},
		{5, 5},
		{19.99, 5},
		{20, 3},
		{39.99, 3},
		{40, 0},
		{400, 0},
	}

	for _, tt := range tests {
		if got := phys.SplashDamage(tt.dist); got != tt.want {
			t.Errorf("SplashDamage(%v) = %d, want %d", tt.dist, got, tt.want)
		}
	}
}

func TestPhysicsValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(p *Physics)
		wantErr bool
	}{
		{name: "defaults", modify: func(p *Physics) {}},
		{name: "zero fps", modify: func(p *Physics) { p.FPS = 0 }, wantErr: true},
		{name: "robot larger than board", modify: func(p *Physics) { p.RobotDiameter = 2000 }, wantErr: true},
		{name: "omni scanner allowed", modify: func(p *Physics) { p.MaxScanHalfAngle = 180 }},
		{name: "scan half-angle too wide", modify: func(p *Physics) { p.MaxScanHalfAngle = 181 }, wantErr: true},
		{name: "turn threshold above one", modify: func(p *Physics) { p.TurnThreshold = 1.5 }, wantErr: true},
		{
			name: "bands out of order",
			modify: func(p *Physics) {
				p.ExplosionBands = []ExplosionBand{{Radius: 20, Damage: 5}, {Radius: 5, Damage: 10}}
			},
			wantErr: true,
		},
		{
			name: "damage grows outward",
			modify: func(p *Physics) {
				p.ExplosionBands = []ExplosionBand{{Radius: 5, Damage: 3}, {Radius: 20, Damage: 5}}
			},
			wantErr: true,
		},
		{name: "no bands", modify: func(p *Physics) { p.ExplosionBands = nil }},
		{name: "negative timeout", modify: func(p *Physics) { p.RespondTimeout = -1 }, wantErr: true},
		{name: "zero respond timeout", modify: func(p *Physics) { p.RespondTimeout = 0 }, wantErr: true},
		{name: "zero initialize timeout", modify: func(p *Physics) { p.InitializeTimeout = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPhysics()
			tt.modify(&p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
