package ship

import (
	"fmt"
	"sort"
)

// ThrusterModel holds the fixed parameters of one thruster.
type ThrusterModel struct {
	// Angle is the direction the thruster pushes the ship, relative to the bow.
	Angle                   float64 `mapstructure:"angle"`
	Capacity                float64 `mapstructure:"capacity"`
	EnergyCost              float64 `mapstructure:"energyCost"`
	SpeedFactor             float64 `mapstructure:"speedFactor"`
	AfterBurnerCapacity     float64 `mapstructure:"afterBurnerCapacity"`
	AfterBurnerEffectFactor float64 `mapstructure:"afterBurnerEffectFactor"`
	MaxAngleError           float64 `mapstructure:"maxAngleError"`
	Damage50                float64 `mapstructure:"damage50"`
}

// ChainGunModel holds the fixed parameters of the chain gun.
type ChainGunModel struct {
	Angle                   float64 `mapstructure:"angle"`
	BulletsPerSecond        float64 `mapstructure:"bulletsPerSecond"`
	BulletSpeed             float64 `mapstructure:"bulletSpeed"`
	BulletDegreesDeviation  float64 `mapstructure:"bulletDegreesDeviation"`
	MinShellRange           float64 `mapstructure:"minShellRange"`
	MaxShellRange           float64 `mapstructure:"maxShellRange"`
	ExplosionSecondsToLive  float64 `mapstructure:"explosionSecondsToLive"`
	ExplosionExpansionSpeed float64 `mapstructure:"explosionExpansionSpeed"`
	ExplosionDamageFactor   float64 `mapstructure:"explosionDamageFactor"`
	ExplosionBlastFactor    float64 `mapstructure:"explosionBlastFactor"`
	MaxAngleOffset          float64 `mapstructure:"maxAngleOffset"`
	MaxCooldownFactor       float64 `mapstructure:"maxCooldownFactor"`
	Damage50                float64 `mapstructure:"damage50"`
}

// RadarModel holds the fixed parameters of the radar.
type RadarModel struct {
	BasicRange       float64 `mapstructure:"basicRange"`
	MalfunctionRange float64 `mapstructure:"malfunctionRange"`
	RangeEaseFactor  float64 `mapstructure:"rangeEaseFactor"`
	Damage50         float64 `mapstructure:"damage50"`
}

// ReactorModel holds the fixed parameters of the reactor.
type ReactorModel struct {
	MaxEnergy             float64 `mapstructure:"maxEnergy"`
	EnergyPerSecond       float64 `mapstructure:"energyPerSecond"`
	MaxAfterBurnerFuel    float64 `mapstructure:"maxAfterBurnerFuel"`
	AfterBurnerCharge     float64 `mapstructure:"afterBurnerCharge"`
	AfterBurnerEnergyCost float64 `mapstructure:"afterBurnerEnergyCost"`
	Damage50              float64 `mapstructure:"damage50"`
}

// SmartPilotModel holds the fixed parameters of the autopilot.
type SmartPilotModel struct {
	MaxTargetAimOffset      float64 `mapstructure:"maxTargetAimOffset"`
	AimOffsetSpeed          float64 `mapstructure:"aimOffsetSpeed"`
	MaxTurnSpeed            float64 `mapstructure:"maxTurnSpeed"`
	OffsetBrokenThreshold   float64 `mapstructure:"offsetBrokenThreshold"`
	MaxSpeed                float64 `mapstructure:"maxSpeed"`
	MaxSpeedFromAfterBurner float64 `mapstructure:"maxSpeedFromAfterBurner"`
	Damage50                float64 `mapstructure:"damage50"`
}

// ArmorModel holds the fixed parameters of the armor.
type ArmorModel struct {
	NumberOfPlates int     `mapstructure:"numberOfPlates"`
	PlateMaxHealth float64 `mapstructure:"plateMaxHealth"`
	HealRate       float64 `mapstructure:"healRate"`
}

// Model is a complete ship configuration.
type Model struct {
	Name               string          `mapstructure:"name"`
	RotationCapacity   float64         `mapstructure:"rotationCapacity"`
	RotationEnergyCost float64         `mapstructure:"rotationEnergyCost"`
	MaxChainGunAmmo    int             `mapstructure:"maxChainGunAmmo"`
	Thrusters          []ThrusterModel `mapstructure:"thrusters"`
	ChainGun           ChainGunModel   `mapstructure:"chainGun"`
	Radar              RadarModel      `mapstructure:"radar"`
	Reactor            ReactorModel    `mapstructure:"reactor"`
	SmartPilot         SmartPilotModel `mapstructure:"smartPilot"`
	Armor              ArmorModel      `mapstructure:"armor"`
}

func thruster(angle float64) ThrusterModel {
	return ThrusterModel{
		Angle:                   angle,
		Capacity:                150,
		EnergyCost:              0.07,
		SpeedFactor:             1,
		AfterBurnerCapacity:     300,
		AfterBurnerEffectFactor: 1,
		MaxAngleError:           20,
		Damage50:                15,
	}
}

// Dragonfly returns the stock light fighter.
func Dragonfly() Model {
	return Model{
		Name:               "dragonfly-SF22",
		RotationCapacity:   90,
		RotationEnergyCost: 0.01,
		MaxChainGunAmmo:    3000,
		Thrusters: []ThrusterModel{
			thruster(0), thruster(0),
			thruster(90),
			thruster(180), thruster(180),
			thruster(270),
		},
		ChainGun: ChainGunModel{
			BulletsPerSecond:        10,
			BulletSpeed:             1000,
			BulletDegreesDeviation:  1,
			MinShellRange:           1000,
			MaxShellRange:           5000,
			ExplosionSecondsToLive:  0.5,
			ExplosionExpansionSpeed: 40,
			ExplosionDamageFactor:   10,
			ExplosionBlastFactor:    1,
			MaxAngleOffset:          15,
			MaxCooldownFactor:       10,
			Damage50:                20,
		},
		Radar: RadarModel{
			BasicRange:       3000,
			MalfunctionRange: 1000,
			RangeEaseFactor:  0.2,
			Damage50:         20,
		},
		Reactor: ReactorModel{
			MaxEnergy:             1000,
			EnergyPerSecond:       50,
			MaxAfterBurnerFuel:    5000,
			AfterBurnerCharge:     20,
			AfterBurnerEnergyCost: 0.5,
			Damage50:              20,
		},
		SmartPilot: SmartPilotModel{
			MaxTargetAimOffset:      30,
			AimOffsetSpeed:          15,
			MaxTurnSpeed:            90,
			OffsetBrokenThreshold:   0.5,
			MaxSpeed:                200,
			MaxSpeedFromAfterBurner: 300,
			Damage50:                15,
		},
		Armor: ArmorModel{
			NumberOfPlates: 12,
			PlateMaxHealth: 200,
			HealRate:       1,
		},
	}
}

var models = map[string]func() Model{
	"dragonfly-SF22": Dragonfly,
}

// LookupModel returns a fresh copy of a named model.
func LookupModel(name string) (Model, error) {
	build, ok := models[name]
	if !ok {
		return Model{}, fmt.Errorf("unknown ship model %q (known: %v)", name, ModelNames())
	}
	return build(), nil
}

// ModelNames lists the registered models.
func ModelNames() []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
