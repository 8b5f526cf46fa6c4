// Package ship simulates a spaceship's subsystems: armor, reactor,
// thrusters, chain gun, radar and the smart pilot that turns command
// intents into thruster output. A Manager owns one ship's State and
// advances it once per tick after the space registry has moved.
package ship

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/Navot-Ram/starwards/pkg/die"
	"github.com/Navot-Ram/starwards/pkg/event"
	"github.com/Navot-Ram/starwards/pkg/logging"
	"github.com/Navot-Ram/starwards/pkg/physics"
	"github.com/Navot-Ram/starwards/pkg/space"
)

// Space is the part of the registry a ship manager needs.
type Space interface {
	space.Reader
	Insert(obj *space.Object) error
	ResolveObjectDamage(id string) []space.Damage
	ResolveObjectOrder(id string) (space.Order, bool)
	ChangeVelocity(id string, delta physics.Vector2D) error
	ChangeTurnSpeed(id string, delta float64) error
	ChangeShipRadarRange(id string, radarRange float64) error
}

// Option configures a Manager.
type Option func(*Manager)

// WithOnDestroy registers a callback fired once when the ship is disabled.
func WithOnDestroy(fn func()) Option {
	return func(m *Manager) { m.onDestroy = fn }
}

// WithBotFactory sets how orders become bots.
func WithBotFactory(f BotFactory) Option {
	return func(m *Manager) { m.botFactory = f }
}

// WithEventBus publishes ship events on bus.
func WithEventBus(bus *event.Bus) Option {
	return func(m *Manager) { m.bus = bus }
}

// WithLogger sets the manager logger.
func WithLogger(logger *logging.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// Manager advances one ship.
type Manager struct {
	state  *State
	space  Space
	die    die.Die
	bus    *event.Bus
	logger *logging.Logger

	maneuveringModes *ModeMachine
	rotationModes    *ModeMachine

	bot        Bot
	botFactory BotFactory
	onDestroy  func()
	destroyed  bool

	// one-shot commands, cleared once applied
	toggleManeuvering bool
	toggleRotation    bool
	nextTarget        bool
	clearTarget       bool

	ticks uint64
	shots uint64
}

// NewManager wraps a spaceship already inserted into sp.
func NewManager(sp Space, obj *space.Object, model Model, d die.Die, opts ...Option) *Manager {
	s := NewState(obj.ID, model)
	s.Faction = obj.Faction
	m := &Manager{
		state: s,
		space: sp,
		die:   die.Prefixed(d, obj.ID+"/"),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logging.Discard()
	}
	m.logger = m.logger.With("ship_id", obj.ID)

	pilot := &s.SmartPilot
	m.maneuveringModes = NewModeMachine(
		[]Mode{ModeVelocity, ModeTarget, ModeDirect}, ModeDirect,
		func() Mode { return pilot.ManeuveringMode },
		func(next Mode) {
			pilot.ManeuveringMode = next
			pilot.Maneuvering = physics.Vector2D{}
		})
	m.rotationModes = NewModeMachine(
		[]Mode{ModeVelocity, ModeTarget}, ModeDirect,
		func() Mode { return pilot.RotationMode },
		func(next Mode) {
			pilot.RotationMode = next
			pilot.Rotation = 0
			pilot.RotationTargetOffset = 0
		})
	m.syncShipProperties(obj)
	return m
}

// ID returns the ship id.
func (m *Manager) ID() string { return m.state.ID }

// State exposes the ship state for reading.
func (m *Manager) State() *State { return m.state }

// Destroyed reports whether the destruction callback has fired.
func (m *Manager) Destroyed() bool { return m.destroyed }

// ManeuveringModes returns the maneuvering mode machine.
func (m *Manager) ManeuveringModes() *ModeMachine { return m.maneuveringModes }

// RotationModes returns the rotation mode machine.
func (m *Manager) RotationModes() *ModeMachine { return m.rotationModes }

// Targeting reports this ship's lock for the fleet snapshot.
func (m *Manager) Targeting() Targeting {
	return Targeting{ShipID: m.state.ID, TargetID: m.state.TargetID, Firing: m.state.ChainGun.IsFiring}
}

// SetBot installs a bot, replacing any previous one. nil removes it.
func (m *Manager) SetBot(b Bot) { m.bot = b }

// Target resolves the current target.
func (m *Manager) Target() (*space.Object, bool) {
	if m.state.TargetID == "" {
		return nil, false
	}
	return m.space.Get(m.state.TargetID)
}

// Update advances the ship by deltaSeconds. fleet is the targeting picture
// of every ship at the start of the tick. An error means the tick was aborted.
func (m *Manager) Update(deltaSeconds float64, fleet Fleet) error {
	obj, ok := m.space.Get(m.state.ID)
	if !ok {
		return nil
	}
	m.ticks++
	s := m.state

	s.TotalSeconds += deltaSeconds
	s.Armor.Heal(deltaSeconds)
	m.handleDamage()
	if s.ChainGun.Broken() && s.AllThrustersBroken() {
		m.destroy()
		return nil
	}

	m.applyBotOrders()
	if m.bot != nil {
		m.syncShipProperties(obj)
		m.bot(deltaSeconds, m.space, m)
	}

	m.handleAfterburnerCommand()
	m.handleTargetCommands()
	m.validateTargetID()
	m.handleModeToggles()
	s.TargetedStatus = fleet.StatusOf(s.ID)
	m.syncShipProperties(obj)

	m.updateEnergy(deltaSeconds)
	if err := m.updateRotation(deltaSeconds); err != nil {
		return err
	}
	if err := m.calcShellRange(); err != nil {
		return err
	}
	if s.SmartPilot.Broken() {
		m.maneuveringModes.TransitionTo(ModeDirect)
		m.rotationModes.TransitionTo(ModeDirect)
	}
	if err := m.calcSmartPilotManeuvering(deltaSeconds); err != nil {
		return err
	}
	if err := m.calcSmartPilotRotation(deltaSeconds); err != nil {
		return err
	}
	m.updateThrustersFromManeuvering(deltaSeconds)
	if err := m.updateVelocityFromThrusters(deltaSeconds); err != nil {
		return err
	}
	m.chargeAfterBurner(deltaSeconds)
	if err := m.updateChainGun(deltaSeconds, obj); err != nil {
		return err
	}
	return m.updateRadarRange()
}

func (m *Manager) destroy() {
	if m.destroyed {
		return
	}
	m.destroyed = true
	m.logger.Info(context.Background(), "ship disabled", "tick", m.ticks)
	m.bus.Publish(event.NewShipEvent(event.ShipDestroyed, m, m.state.ID, m.state.Faction, "disabled"))
	if m.onDestroy != nil {
		m.onDestroy()
	}
}

func (m *Manager) applyBotOrders() {
	order, ok := m.space.ResolveObjectOrder(m.state.ID)
	if !ok {
		return
	}
	if m.botFactory == nil {
		m.logger.Warn(context.Background(), "order dropped, no bot factory", "order", order.Kind.String())
		return
	}
	m.cleanupBot()
	if order.Kind == space.OrderAttack {
		m.SetTarget(order.TargetID)
	}
	m.bot = m.botFactory(order)
	m.logger.Debug(context.Background(), "bot installed", "order", order.Kind.String())
}

// cleanupBot releases the controls a previous bot may have left engaged.
func (m *Manager) cleanupBot() {
	sp := &m.state.SmartPilot
	sp.Rotation = 0
	sp.Maneuvering = physics.Vector2D{}
	m.ChainGun(false)
}

func (m *Manager) handleAfterburnerCommand() {
	s := m.state
	if s.AfterBurner != s.AfterBurnerCommand && (!m.ShouldEnforceMaxSpeed() || s.AfterBurner < s.AfterBurnerCommand) {
		s.AfterBurner = s.AfterBurnerCommand
	}
}

func (m *Manager) handleTargetCommands() {
	switch {
	case m.clearTarget:
		m.SetTarget("")
	case m.nextTarget:
		m.SetTarget(followingTarget(m.space.Ships(), m.state.ID, m.state.TargetID))
	}
	m.clearTarget, m.nextTarget = false, false
}

// validateTargetID drops a stale target and updates which modes are legal.
func (m *Manager) validateTargetID() {
	s := m.state
	if _, ok := m.Target(); !ok {
		s.TargetID = ""
	}
	hasTarget := s.TargetID != ""
	m.maneuveringModes.SetLegal(ModeTarget, hasTarget)
	m.rotationModes.SetLegal(ModeTarget, hasTarget)
	if hasTarget {
		m.setShellRangeMode(ModeTarget)
	} else {
		m.setShellRangeMode(ModeDirect)
	}
}

func (m *Manager) setShellRangeMode(mode Mode) {
	g := &m.state.ChainGun
	if g.ShellRangeMode != mode {
		g.ShellRangeMode = mode
		g.ShellRange = 0
	}
}

func (m *Manager) handleModeToggles() {
	if m.toggleRotation {
		m.rotationModes.Toggle()
	}
	if m.toggleManeuvering {
		m.maneuveringModes.Toggle()
	}
	m.toggleRotation, m.toggleManeuvering = false, false
}

func (m *Manager) syncShipProperties(obj *space.Object) {
	s := m.state
	s.Position = obj.Position
	s.Velocity = obj.Velocity
	s.Angle = obj.Angle
	s.TurnSpeed = obj.TurnSpeed
	s.Faction = obj.Faction
	s.RadarRange = obj.RadarRange
}

func (m *Manager) updateEnergy(deltaSeconds float64) {
	r := &m.state.Reactor
	r.Energy = math.Min(r.MaxEnergy, r.Energy+r.EffectiveEnergyPerSecond()*deltaSeconds)
}

func (m *Manager) updateRotation(deltaSeconds float64) error {
	s := m.state
	if s.Rotation == 0 {
		return nil
	}
	power := s.Rotation * deltaSeconds * s.RotationCapacity
	if !m.TrySpendEnergy(math.Abs(power) * s.RotationEnergyCost) {
		return nil
	}
	if err := m.space.ChangeTurnSpeed(s.ID, power); err != nil {
		return fmt.Errorf("rotate %s: %w", s.ID, err)
	}
	return nil
}

// shellRangeBase is the shell range a zero aim command selects.
func (m *Manager) shellRangeBase() (float64, error) {
	s := m.state
	g := &s.ChainGun
	limits := g.ShellRangeLimits()
	switch g.ShellRangeMode {
	case ModeDirect:
	case ModeTarget:
		if target, ok := m.Target(); ok {
			return limits.Clamp(target.Position.Distance(s.Position)), nil
		}
	default:
		return 0, unknownMode("shell range", g.ShellRangeMode)
	}
	return limits.Min + limits.Size()/2, nil
}

// calcShellRange sets the shell lifetime from the range mode and aim command.
func (m *Manager) calcShellRange() error {
	g := &m.state.ChainGun
	base, err := m.shellRangeBase()
	if err != nil {
		return err
	}
	limits := g.ShellRangeLimits()
	g.ShellSecondsToLive = g.ShellSecondsToLiveFor(limits.Clamp(base + g.ShellRange*limits.Size()/2))
	return nil
}

// pilotJitter is the noise a damaged smart pilot adds to its output. A raw
// stick is only disturbed once the pilot is broken and forces DIRECT.
func (m *Manager) pilotJitter() physics.Vector2D {
	sp := &m.state.SmartPilot
	factor := sp.OffsetFactor
	if factor == 0 || (sp.ManeuveringMode == ModeDirect && !sp.Broken()) {
		return physics.Vector2D{}
	}
	angle := m.die.RollInRange("smartPilotOffset"+strconv.FormatUint(m.ticks, 10), -180, 180)
	return physics.FromAngle(angle, factor)
}

func (m *Manager) calcSmartPilotManeuvering(deltaSeconds float64) error {
	s := m.state
	sp := &s.SmartPilot
	var out Maneuvering
	switch sp.ManeuveringMode {
	case ModeDirect:
		out = Maneuvering{Boost: sp.Maneuvering.X, Strafe: sp.Maneuvering.Y}
	case ModeTarget:
		desired := sp.Maneuvering.Scale(s.MaxSpeed())
		if target, ok := m.Target(); ok {
			desired = desired.Add(s.GlobalToLocal(target.Velocity))
		}
		out = MatchLocalSpeed(deltaSeconds, s, desired)
	case ModeVelocity:
		out = MatchLocalSpeed(deltaSeconds, s, sp.Maneuvering.Scale(s.MaxSpeed()))
	default:
		return unknownMode("maneuvering", sp.ManeuveringMode)
	}
	jitter := m.pilotJitter()
	s.Boost = physics.Clamp(out.Boost+jitter.Y, -1, 1)
	s.Strafe = physics.Clamp(out.Strafe+jitter.X, -1, 1)
	return nil
}

func (m *Manager) calcSmartPilotRotation(deltaSeconds float64) error {
	s := m.state
	sp := &s.SmartPilot
	var rotation float64
	switch sp.RotationMode {
	case ModeDirect:
		rotation = sp.Rotation
	case ModeTarget:
		if sp.MaxTargetAimOffset > 0 {
			sp.RotationTargetOffset = physics.Clamp(
				sp.RotationTargetOffset+sp.Rotation*deltaSeconds*sp.AimOffsetSpeed/sp.MaxTargetAimOffset, -1, 1)
		}
		if target, ok := m.Target(); ok {
			rotation = RotateToTarget(deltaSeconds, s, target.Position, sp.RotationTargetOffset*sp.MaxTargetAimOffset)
		} else {
			rotation = RotationFromTargetTurnSpeed(deltaSeconds, s, 0)
		}
	case ModeVelocity:
		rotation = RotationFromTargetTurnSpeed(deltaSeconds, s, sp.Rotation*s.MaxTurnSpeed())
	default:
		return unknownMode("rotation", sp.RotationMode)
	}
	s.Rotation = physics.Clamp(rotation, -1, 1)
	return nil
}

// ShouldEnforceMaxSpeed reports whether the pilot must slow the ship down.
func (m *Manager) ShouldEnforceMaxSpeed() bool {
	s := m.state
	return s.SmartPilot.ManeuveringMode != ModeDirect &&
		s.Velocity.Length() > s.MaxSpeedForAfterBurner(s.AfterBurnerCommand)
}

// calcManeuveringAction combines the outputs into one global thrust direction.
func (m *Manager) calcManeuveringAction() physics.Vector2D {
	s := m.state
	if m.ShouldEnforceMaxSpeed() {
		return s.Velocity.Negate().Normalize()
	}
	action := physics.FromAngle(s.Angle, s.Boost).Add(physics.FromAngle(s.Angle+90, s.Strafe))
	if s.Antidrift > 0 {
		heading := action
		if heading.IsZero() {
			heading = physics.FromAngle(s.Angle, 1)
		}
		drift := s.Velocity.Sub(s.Velocity.ProjectOn(heading))
		action = action.Add(drift.Negate().Normalize().Scale(s.Antidrift))
	}
	if s.Breaks > 0 {
		action = action.Add(s.Velocity.Negate().Normalize().Scale(s.Breaks))
	}
	return action
}

// minThrottle filters the rounding residue of rotating an action onto a
// perpendicular thruster.
const minThrottle = 1e-9

func (m *Manager) updateThrustersFromManeuvering(deltaSeconds float64) {
	s := m.state
	action := m.calcManeuveringAction()
	for _, t := range s.Thrusters {
		t.Active, t.AfterBurnerActive = 0, 0
		if action.IsZero() || t.Broken() {
			continue
		}
		desired := physics.Clamp(action.Rotate(-(t.Angle + s.Angle)).X, 0, 1)
		if desired < minThrottle {
			continue
		}
		if m.TrySpendEnergy(desired * t.Capacity * deltaSeconds * t.EnergyCost) {
			t.Active = desired
		}
		if s.AfterBurner > 0 {
			ab := math.Min(desired*s.AfterBurner, 1)
			if m.TrySpendAfterBurner(ab * t.AfterBurnerCapacity * deltaSeconds) {
				t.AfterBurnerActive = ab
			}
		}
	}
}

func (m *Manager) updateVelocityFromThrusters(deltaSeconds float64) error {
	s := m.state
	var delta physics.Vector2D
	for _, t := range s.Thrusters {
		speed := t.Active*t.EffectiveCapacity()*t.AvailableCapacity*t.SpeedFactor*deltaSeconds +
			t.AfterBurnerActive*t.EffectiveAfterBurnerCapacity()*t.AfterBurnerEffectFactor*deltaSeconds
		if speed == 0 {
			continue
		}
		delta = delta.Add(physics.FromAngle(t.Angle+t.AngleError+s.Angle, speed))
	}
	if delta.IsZero() {
		return nil
	}
	if err := m.space.ChangeVelocity(s.ID, delta); err != nil {
		return fmt.Errorf("thrust %s: %w", s.ID, err)
	}
	return nil
}

func (m *Manager) chargeAfterBurner(deltaSeconds float64) {
	r := &m.state.Reactor
	amount := math.Min(r.MaxAfterBurnerFuel-r.AfterBurnerFuel, r.AfterBurnerCharge*deltaSeconds)
	if amount > 0 && m.TrySpendEnergy(amount*r.AfterBurnerEnergyCost) {
		r.AfterBurnerFuel = math.Min(r.MaxAfterBurnerFuel, r.AfterBurnerFuel+amount)
	}
}

func (m *Manager) updateRadarRange() error {
	s := m.state
	r := &s.Radar
	radarRange := r.BasicRange
	if r.MalfunctionRangeFactor != 0 {
		frequency := m.die.RollInRange("updateRadarRangeFrequency", 0.2, 1)
		wave := physics.SinWave(s.TotalSeconds, frequency, 0.5, 0, 0.5)
		ease := physics.Range{Min: r.MalfunctionRangeFactor, Max: r.MalfunctionRangeFactor + r.RangeEaseFactor}
		radarRange = physics.Lerp(ease, physics.Range{Min: r.MalfunctionRange, Max: r.BasicRange}, ease.Clamp(wave))
	}
	s.RadarRange = radarRange
	if err := m.space.ChangeShipRadarRange(s.ID, radarRange); err != nil {
		return fmt.Errorf("radar %s: %w", s.ID, err)
	}
	return nil
}

// TrySpendEnergy debits value from the reactor if it can be covered in full.
// A failed spend leaves the reactor untouched.
func (m *Manager) TrySpendEnergy(value float64) bool {
	r := &m.state.Reactor
	if value < 0 {
		m.logger.Warn(context.Background(), "negative energy spend", "value", value)
		return false
	}
	if r.Energy < value {
		return false
	}
	r.Energy = math.Max(0, r.Energy-value)
	return true
}

// TrySpendAfterBurner debits afterburner fuel if it can be covered in full.
func (m *Manager) TrySpendAfterBurner(value float64) bool {
	r := &m.state.Reactor
	if value < 0 {
		m.logger.Warn(context.Background(), "negative afterburner spend", "value", value)
		return false
	}
	if r.AfterBurnerFuel < value {
		return false
	}
	r.AfterBurnerFuel = math.Max(0, r.AfterBurnerFuel-value)
	return true
}

// Reset restores every subsystem and consumable.
func (m *Manager) Reset() {
	s := m.state
	s.Reactor.Energy = s.Reactor.MaxEnergy
	s.Reactor.AfterBurnerFuel = s.Reactor.MaxAfterBurnerFuel
	s.Reactor.EfficiencyFactor = 1
	s.Armor.Fix()
	s.ChainGun.reset()
	for _, t := range s.Thrusters {
		t.reset()
	}
	s.Radar.MalfunctionRangeFactor = 0
	s.SmartPilot.OffsetFactor = 0
	s.ChainGunAmmo = s.MaxChainGunAmmo
	m.destroyed = false
}
