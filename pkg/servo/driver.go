package servo

import (
	"sync"

	"github.com/teslashibe/go-walle/internal/log"
)

// Driver is the actuator adapter: one physical write per call. The real
// implementation drives a PCA9685 board; tests and off-rig runs use SimDriver.
type Driver interface {
	SetAngle(channel int, angle float64) error
}

// SimDriver logs writes instead of driving hardware.
type SimDriver struct {
	mu     sync.Mutex
	writes int
}

// NewSimDriver creates a simulated driver.
func NewSimDriver() *SimDriver {
	return &SimDriver{}
}

// SetAngle records and logs a simulated servo write.
func (d *SimDriver) SetAngle(channel int, angle float64) error {
	d.mu.Lock()
	d.writes++
	d.mu.Unlock()
	log.Debug("sim servo write", "channel", channel, "angle", angle)
	return nil
}

// Writes returns the number of writes issued so far.
func (d *SimDriver) Writes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes
}
