package arena

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/picogrid/robot-arena/pkg/geometry"
	"github.com/picogrid/robot-arena/pkg/logger"
	"github.com/picogrid/robot-arena/pkg/sandbox"
)

// ErrNoCompetitors is returned when a board is requested for an empty field
var ErrNoCompetitors = errors.New("arena: at least one competitor is required")

// Board owns the robots and missiles of one game and advances it one tick
// at a time. Step and Snapshot are mutually exclusive, so a snapshot never
// observes a half-applied tick.
type Board struct {
	mu sync.Mutex

	phys          *Physics
	robots        []*Robot
	missiles      []*Missile
	detonated     []*Missile
	nextMissileID int
	round         int

	onEvent EventHandler
	log     logger.Logger
}

type boardOptions struct {
	physics   Physics
	rng       *rand.Rand
	positions []geometry.Vec2
	onEvent   EventHandler
	log       logger.Logger
}

// Option configures a Board
type Option func(*boardOptions)

// WithPhysics replaces the default physics
func WithPhysics(p Physics) Option {
	return func(o *boardOptions) { o.physics = p }
}

// WithRand sets the randomness source used for initial placement
func WithRand(rng *rand.Rand) Option {
	return func(o *boardOptions) { o.rng = rng }
}

// WithPositions places competitors at fixed positions, in competitor order,
// instead of drawing a random circle placement
func WithPositions(positions ...geometry.Vec2) Option {
	return func(o *boardOptions) { o.positions = positions }
}

// WithEvents registers a handler for board events
func WithEvents(fn EventHandler) Option {
	return func(o *boardOptions) { o.onEvent = fn }
}

// WithLogger replaces the board logger
func WithLogger(l logger.Logger) Option {
	return func(o *boardOptions) { o.log = l }
}

// NewBoard places one robot per competitor and runs every program's
// Initialize under the sandbox. A competitor whose factory or Initialize
// panics or overruns its budget is left off the board.
func NewBoard(ctx context.Context, competitors []Competitor, opts ...Option) (*Board, error) {
	if len(competitors) == 0 {
		return nil, ErrNoCompetitors
	}

	o := boardOptions{physics: DefaultPhysics()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.physics.Validate(); err != nil {
		return nil, fmt.Errorf("invalid physics: %w", err)
	}
	if o.log == nil {
		o.log = logger.WithPrefix("arena")
	}

	phys := o.physics
	b := &Board{
		phys:    &phys,
		robots:  make([]*Robot, 0, len(competitors)),
		onEvent: o.onEvent,
		log:     o.log,
	}

	positions := o.positions
	if positions == nil {
		rng := o.rng
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		positions = circlePlacement(rng, b.phys, len(competitors))
	}
	if len(positions) != len(competitors) {
		return nil, fmt.Errorf("got %d positions for %d competitors", len(positions), len(competitors))
	}

	for i, c := range competitors {
		if err := b.enter(ctx, i, c, positions[i]); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// enter builds and initializes one competitor's robot. Only a cancelled
// context is returned as an error; competitor faults are logged and the
// robot is dropped.
func (b *Board) enter(ctx context.Context, boardID int, c Competitor, pos geometry.Vec2) error {
	var (
		ctl   *Controls
		robot *Robot
	)

	err := sandbox.Call(ctx, b.phys.InitializeTimeout, func() {
		program := c.Factory()
		robot = newRobot(b.phys, c.ID, boardID, program, pos)
		ctl = newControls(robot)
		program.Initialize(ctl)
	})
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("initializing %s: %w", c.ID, ctx.Err())
		}
		b.log.WithField("robot", c.ID).Warnf("excluded from game: initialize failed: %v", err)
		b.emit(Event{Type: EventInitFailed, RobotID: c.ID, BoardID: boardID, Position: pos, Err: err})
		return nil
	}

	robot.commit(ctl)
	b.robots = append(b.robots, robot)
	return nil
}

// Step advances the board by one tick. The phase order is fixed: decide,
// sense, fire, prune, missiles, move, prune.
func (b *Board) Step(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.round++
	b.detonated = nil

	if err := b.decide(ctx); err != nil {
		return err
	}
	b.sense()
	b.fire()
	b.prune("fault")
	b.advanceMissiles()
	b.move()
	b.prune("damage")

	return nil
}

// decide runs every live robot's Respond under the sandbox and commits the
// requests of the ones that returned cleanly
func (b *Board) decide(ctx context.Context) error {
	for _, r := range b.robots {
		if r.Dead() {
			continue
		}

		ctl := newControls(r)
		program := r.program
		err := sandbox.Call(ctx, b.phys.RespondTimeout, func() {
			program.Respond(ctl)
		})
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("round %d: %w", b.round, ctx.Err())
			}
			r.kill()
			b.log.WithFields(map[string]interface{}{
				"robot": r.id,
				"round": b.round,
			}).Warnf("killed: respond failed: %v", err)
			b.emit(Event{Type: EventRobotFaulted, RobotID: r.id, BoardID: r.boardID, Position: r.pos, Err: err})
			continue
		}

		r.commit(ctl)
	}
	return nil
}

// sense resolves scans against the pre-movement positions of the other live
// robots
func (b *Board) sense() {
	for i, r := range b.robots {
		if r.Dead() {
			continue
		}

		targets := make([]geometry.Vec2, 0, len(b.robots)-1)
		for j, other := range b.robots {
			if j == i || other.Dead() {
				continue
			}
			targets = append(targets, other.pos)
		}
		r.resolveScan(targets)
	}
}

func (b *Board) fire() {
	for _, r := range b.robots {
		if r.Dead() {
			continue
		}

		m := r.launchMissile()
		if m == nil {
			continue
		}
		m.id = b.nextMissileID
		b.nextMissileID++
		b.missiles = append(b.missiles, m)
		b.emit(Event{Type: EventMissileLaunched, RobotID: r.id, BoardID: r.boardID, MissileID: m.id, Position: m.pos})
	}
}

// advanceMissiles moves every missile, detonates the ones that ran out of
// distance and drops them from the live collection
func (b *Board) advanceMissiles() {
	live := b.missiles[:0]
	for _, m := range b.missiles {
		m.advance()
		if m.explode(b.robots) {
			b.detonated = append(b.detonated, m)
			b.emit(Event{Type: EventMissileDetonated, BoardID: m.sender, MissileID: m.id, Position: m.pos})
		}
		if m.remaining > 0 {
			live = append(live, m)
		}
	}
	// Clear the tail so dropped missiles can be collected
	for i := len(live); i < len(b.missiles); i++ {
		b.missiles[i] = nil
	}
	b.missiles = live
}

// move processes robots in registration order; each one only checks
// collisions against the robots that moved before it in this phase
func (b *Board) move() {
	for i, r := range b.robots {
		r.moveAndCheckCrash(b.robots[:i])
	}
}

func (b *Board) prune(cause string) {
	live := make([]*Robot, 0, len(b.robots))
	for _, r := range b.robots {
		if !r.Dead() {
			live = append(live, r)
			continue
		}
		b.log.WithField("robot", r.id).Debugf("destroyed in round %d (%s)", b.round, cause)
		b.emit(Event{Type: EventRobotDestroyed, RobotID: r.id, BoardID: r.boardID, Position: r.pos})
	}
	b.robots = live
}

func (b *Board) emit(ev Event) {
	if b.onEvent == nil {
		return
	}
	ev.Round = b.round
	b.onEvent(ev)
}

// Snapshot returns the replay view of the board after the last tick
func (b *Board) Snapshot() Round {
	b.mu.Lock()
	defer b.mu.Unlock()

	round := Round{
		Number:   b.round,
		Robots:   make(map[int]RobotInRound, len(b.robots)),
		Missiles: make(map[int]MissileInRound, len(b.missiles)+len(b.detonated)),
	}
	for _, r := range b.robots {
		round.Robots[r.boardID] = RobotInRound{X: r.pos.X, Y: r.pos.Y, Damage: r.dmg}
	}
	for _, m := range b.missiles {
		round.Missiles[m.id] = MissileInRound{Sender: m.sender, X: m.pos.X, Y: m.pos.Y}
	}
	for _, m := range b.detonated {
		round.Missiles[m.id] = MissileInRound{Sender: m.sender, X: m.pos.X, Y: m.pos.Y, Exploding: true}
	}
	return round
}

// Robots returns the live robots in registration order
func (b *Board) Robots() []*Robot {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*Robot, len(b.robots))
	copy(out, b.robots)
	return out
}

// Missiles returns the missiles still in flight in id order
func (b *Board) Missiles() []*Missile {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*Missile, len(b.missiles))
	copy(out, b.missiles)
	return out
}

// Survivors returns the external ids of the live robots
func (b *Board) Survivors() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]string, len(b.robots))
	for i, r := range b.robots {
		ids[i] = r.id
	}
	return ids
}

// LiveRobots returns the number of robots still on the board
func (b *Board) LiveRobots() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.robots)
}

// LiveMissiles returns the number of missiles in flight
func (b *Board) LiveMissiles() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.missiles)
}

// Round returns the number of ticks played
func (b *Board) Round() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.round
}

// Physics returns a copy of the board physics
func (b *Board) Physics() Physics {
	return *b.phys
}
