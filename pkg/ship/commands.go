package ship

import "github.com/Navot-Ram/starwards/pkg/physics"

// Commands are written between ticks, by a client binding or a bot. Each is
// clamped into its range; one-shot commands are consumed by the next Update.

// SetRotationCommand sets the rotation stick in [-1, 1].
func (m *Manager) SetRotationCommand(v float64) {
	m.state.SmartPilot.Rotation = physics.Clamp(v, -1, 1)
}

// SetBoostCommand sets the forward stick in [-1, 1].
func (m *Manager) SetBoostCommand(v float64) {
	m.state.SmartPilot.Maneuvering.X = physics.Clamp(v, -1, 1)
}

// SetStrafeCommand sets the sideways stick in [-1, 1].
func (m *Manager) SetStrafeCommand(v float64) {
	m.state.SmartPilot.Maneuvering.Y = physics.Clamp(v, -1, 1)
}

// SetAntidrift sets drift compensation in [0, 1].
func (m *Manager) SetAntidrift(v float64) {
	m.state.Antidrift = physics.Clamp(v, 0, 1)
}

// SetBreaks sets braking in [0, 1].
func (m *Manager) SetBreaks(v float64) {
	m.state.Breaks = physics.Clamp(v, 0, 1)
}

// SetAfterBurnerCommand requests an afterburner level in [0, 1].
func (m *Manager) SetAfterBurnerCommand(v float64) {
	m.state.AfterBurnerCommand = physics.Clamp(v, 0, 1)
}

// SetShellRangeCommand aims the shell range in [-1, 1] around the middle of the band.
func (m *Manager) SetShellRangeCommand(v float64) {
	m.state.ChainGun.ShellRange = physics.Clamp(v, -1, 1)
}

// ChainGun sets the trigger. Pulling it is ignored while the gun is broken or empty.
func (m *Manager) ChainGun(isFiring bool) {
	s := m.state
	if !isFiring || (!s.ChainGun.Broken() && s.ChainGunAmmo > 0) {
		s.ChainGun.IsFiring = isFiring
	}
}

// AddChainGunAmmo reloads up to the magazine size.
func (m *Manager) AddChainGunAmmo(n int) {
	s := m.state
	s.ChainGunAmmo = min(s.MaxChainGunAmmo, max(0, s.ChainGunAmmo+n))
}

// SetTarget locks onto id. An empty id clears the lock; a stale id is
// dropped on the next Update.
func (m *Manager) SetTarget(id string) {
	m.state.TargetID = id
}

// ToggleManeuveringMode cycles the maneuvering mode on the next Update.
func (m *Manager) ToggleManeuveringMode() { m.toggleManeuvering = true }

// ToggleRotationMode cycles the rotation mode on the next Update.
func (m *Manager) ToggleRotationMode() { m.toggleRotation = true }

// NextTarget locks onto the next ship on the next Update.
func (m *Manager) NextTarget() { m.nextTarget = true }

// ClearTarget drops the lock on the next Update. It wins over NextTarget.
func (m *Manager) ClearTarget() { m.clearTarget = true }

// SetSmartPilotManeuveringMode switches the maneuvering mode now and
// reports whether the machine accepted it. TARGET needs a locked target.
func (m *Manager) SetSmartPilotManeuveringMode(mode Mode) bool {
	return m.maneuveringModes.TransitionTo(mode)
}

// SetSmartPilotRotationMode switches the rotation mode now and reports
// whether the machine accepted it.
func (m *Manager) SetSmartPilotRotationMode(mode Mode) bool {
	return m.rotationModes.TransitionTo(mode)
}
