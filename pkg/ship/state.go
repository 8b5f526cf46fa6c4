package ship

import (
	"math"

	"github.com/Navot-Ram/starwards/pkg/physics"
)

// Thruster is one thruster's model plus its accumulated damage.
type Thruster struct {
	ThrusterModel

	// Active is the throttle applied this tick, in [0, 1].
	Active float64
	// AfterBurnerActive is the afterburner throttle applied this tick, in [0, 1].
	AfterBurnerActive float64
	// AngleError skews the push direction, in degrees.
	AngleError float64
	// AvailableCapacity scales the effective push, in [0, 1].
	AvailableCapacity float64
}

// Broken reports whether the thruster no longer produces thrust.
func (t *Thruster) Broken() bool {
	return t.AvailableCapacity == 0 || math.Abs(t.AngleError) >= t.MaxAngleError
}

// EffectiveCapacity is zero while broken.
func (t *Thruster) EffectiveCapacity() float64 {
	if t.Broken() {
		return 0
	}
	return t.Capacity
}

// EffectiveAfterBurnerCapacity is zero while broken.
func (t *Thruster) EffectiveAfterBurnerCapacity() float64 {
	if t.Broken() {
		return 0
	}
	return t.AfterBurnerCapacity
}

func (t *Thruster) reset() {
	t.AngleError = 0
	t.AvailableCapacity = 1
}

// ChainGun is the main weapon.
type ChainGun struct {
	ChainGunModel

	IsFiring       bool
	Cooldown       float64
	AngleOffset    float64
	CooldownFactor float64
	// ShellRange is the aim command in [-1, 1] around the middle of the range.
	ShellRange         float64
	ShellRangeMode     Mode
	ShellSecondsToLive float64
}

// Broken reports whether the gun can no longer fire.
func (c *ChainGun) Broken() bool {
	return math.Abs(c.AngleOffset) >= c.MaxAngleOffset || c.CooldownFactor >= c.MaxCooldownFactor
}

// ShellRangeLimits is the reachable shell travel distance.
func (c *ChainGun) ShellRangeLimits() physics.Range {
	return physics.Range{Min: c.MinShellRange, Max: c.MaxShellRange}
}

// ShellSecondsToLiveFor converts a travel distance into shell lifetime.
func (c *ChainGun) ShellSecondsToLiveFor(shellRange float64) float64 {
	if c.BulletSpeed <= 0 {
		return 0
	}
	return shellRange / c.BulletSpeed
}

func (c *ChainGun) reset() {
	c.AngleOffset = 0
	c.CooldownFactor = 1
	c.Cooldown = 0
}

// Radar tracks the detection range.
type Radar struct {
	RadarModel

	MalfunctionRangeFactor float64
}

// Broken reports whether the radar is stuck at its malfunction range.
func (r *Radar) Broken() bool {
	return r.MalfunctionRangeFactor >= 1
}

// Reactor produces energy and charges the afterburner.
type Reactor struct {
	ReactorModel

	Energy           float64
	AfterBurnerFuel  float64
	EfficiencyFactor float64
}

// Broken reports whether the reactor has stopped producing energy.
func (r *Reactor) Broken() bool {
	return r.EfficiencyFactor <= 0
}

// EffectiveEnergyPerSecond scales the nominal output by efficiency.
func (r *Reactor) EffectiveEnergyPerSecond() float64 {
	return r.EnergyPerSecond * math.Max(r.EfficiencyFactor, 0)
}

// SmartPilot holds the autopilot modes and the raw commands it interprets.
type SmartPilot struct {
	SmartPilotModel

	RotationMode    Mode
	ManeuveringMode Mode
	// Rotation is the rotation command in [-1, 1].
	Rotation             float64
	RotationTargetOffset float64
	// Maneuvering is the (boost, strafe) command, each in [-1, 1].
	Maneuvering  physics.Vector2D
	OffsetFactor float64
}

// Broken reports whether the pilot output is too noisy to trust.
func (p *SmartPilot) Broken() bool {
	return p.OffsetFactor >= p.OffsetBrokenThreshold
}

// ArmorPlate is one sector of the hull.
type ArmorPlate struct {
	Health float64
}

// Armor is the ring of plates around the hull.
type Armor struct {
	ArmorModel

	Plates []ArmorPlate
}

// DegreesPerPlate is the width of one plate's arc.
func (a *Armor) DegreesPerPlate() float64 {
	if len(a.Plates) == 0 {
		return 360
	}
	return 360 / float64(len(a.Plates))
}

// PlateArc returns the ship-local arc covered by plate i.
func (a *Armor) PlateArc(i int) physics.Arc {
	width := a.DegreesPerPlate()
	return physics.NewArc(float64(i)*width, float64(i+1)*width)
}

// State is the complete mutable state of a ship. The manager owns it;
// everything else reads it.
type State struct {
	ID        string
	ModelName string
	Faction   string

	// synchronized from the registry
	Position   physics.Vector2D
	Velocity   physics.Vector2D
	Angle      float64
	TurnSpeed  float64
	RadarRange float64

	RotationCapacity   float64
	RotationEnergyCost float64

	Thrusters  []*Thruster
	ChainGun   ChainGun
	Radar      Radar
	Reactor    Reactor
	SmartPilot SmartPilot
	Armor      Armor

	// Rotation is the resolved rotation output in [-1, 1].
	Rotation float64
	// Boost is the resolved forward output in [-1, 1].
	Boost float64
	// Strafe is the resolved sideways output in [-1, 1].
	Strafe float64
	// Antidrift cancels sideways drift, in [0, 1].
	Antidrift float64
	// Breaks opposes velocity, in [0, 1].
	Breaks float64
	// AfterBurner is the applied afterburner level in [0, 1].
	AfterBurner        float64
	AfterBurnerCommand float64

	TargetID       string
	TargetedStatus TargetedStatus

	ChainGunAmmo    int
	MaxChainGunAmmo int

	TotalSeconds float64
}

// NewState builds a fresh ship state from a model.
func NewState(id string, m Model) *State {
	s := &State{
		ID:                 id,
		ModelName:          m.Name,
		RotationCapacity:   m.RotationCapacity,
		RotationEnergyCost: m.RotationEnergyCost,
		ChainGun:           ChainGun{ChainGunModel: m.ChainGun, CooldownFactor: 1, ShellRangeMode: ModeDirect},
		Radar:              Radar{RadarModel: m.Radar},
		Reactor: Reactor{
			ReactorModel:     m.Reactor,
			Energy:           m.Reactor.MaxEnergy,
			AfterBurnerFuel:  m.Reactor.MaxAfterBurnerFuel,
			EfficiencyFactor: 1,
		},
		SmartPilot: SmartPilot{
			SmartPilotModel: m.SmartPilot,
			RotationMode:    ModeDirect,
			ManeuveringMode: ModeDirect,
		},
		Armor:           Armor{ArmorModel: m.Armor, Plates: make([]ArmorPlate, m.Armor.NumberOfPlates)},
		ChainGunAmmo:    m.MaxChainGunAmmo,
		MaxChainGunAmmo: m.MaxChainGunAmmo,
		RadarRange:      m.Radar.BasicRange,
	}
	for _, tm := range m.Thrusters {
		s.Thrusters = append(s.Thrusters, &Thruster{ThrusterModel: tm, AvailableCapacity: 1})
	}
	for i := range s.Armor.Plates {
		s.Armor.Plates[i].Health = m.Armor.PlateMaxHealth
	}
	s.ChainGun.ShellSecondsToLive = s.ChainGun.ShellSecondsToLiveFor(s.ChainGun.MinShellRange)
	return s
}

// GlobalToLocal rotates a global vector into the ship frame (x toward the bow).
func (s *State) GlobalToLocal(v physics.Vector2D) physics.Vector2D {
	return v.Rotate(-s.Angle)
}

// LocalToGlobal rotates a ship-frame vector into the global frame.
func (s *State) LocalToGlobal(v physics.Vector2D) physics.Vector2D {
	return v.Rotate(s.Angle)
}

// VelocityCapacity is the velocity change per second the working thrusters
// facing direction (ship-local degrees) can deliver at the current afterburner level.
func (s *State) VelocityCapacity(direction float64) float64 {
	want := physics.PositiveDegrees(direction)
	total := 0.0
	for _, t := range s.Thrusters {
		if math.Abs(physics.DegreesDelta(physics.PositiveDegrees(t.Angle)-want)) > physics.Epsilon {
			continue
		}
		total += t.EffectiveCapacity()*t.SpeedFactor +
			s.AfterBurner*t.EffectiveAfterBurnerCapacity()*t.AfterBurnerEffectFactor
	}
	return total
}

// MaxSpeedForAfterBurner is the enforced speed cap at an afterburner level.
func (s *State) MaxSpeedForAfterBurner(afterBurner float64) float64 {
	return s.SmartPilot.MaxSpeed + afterBurner*s.SmartPilot.MaxSpeedFromAfterBurner
}

// MaxSpeed is the speed cap at the current afterburner level.
func (s *State) MaxSpeed() float64 {
	return s.MaxSpeedForAfterBurner(s.AfterBurner)
}

// MaxMaxSpeed is the speed cap at full afterburner.
func (s *State) MaxMaxSpeed() float64 {
	return s.MaxSpeedForAfterBurner(1)
}

// MaxTurnSpeed is the autopilot's turn speed limit.
func (s *State) MaxTurnSpeed() float64 {
	return s.SmartPilot.MaxTurnSpeed
}

// AllThrustersBroken is true for a ship with no working thruster.
func (s *State) AllThrustersBroken() bool {
	for _, t := range s.Thrusters {
		if !t.Broken() {
			return false
		}
	}
	return true
}
