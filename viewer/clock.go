package viewer

// clock is the sapling.App handed to the scene. Time advances by a fixed
// step per tick so runs are reproducible regardless of frame rate.
type clock struct {
	time   float64
	delta  float64
	aspect float32
}

func newClock(width, height int) *clock {
	c := &clock{}
	c.resize(width, height)
	return c
}

func (c *clock) Time() float64   { return c.time }
func (c *clock) Delta() float64  { return c.delta }
func (c *clock) Aspect() float32 { return c.aspect }

func (c *clock) tick(dt float64) {
	c.delta = dt
	c.time += dt
}

func (c *clock) resize(width, height int) {
	if width <= 0 || height <= 0 {
		c.aspect = 1
		return
	}
	c.aspect = float32(width) / float32(height)
}
