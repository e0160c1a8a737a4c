package hw

// Guard wraps out so that every call runs inside cs. The foreground context
// writes through the guarded Output; the interrupt context, which already
// holds cs, writes to out directly.
func Guard(out Output, cs CriticalSection) Output {
	return &guarded{out: out, cs: cs}
}

type guarded struct {
	out Output
	cs  CriticalSection
}

func (g *guarded) SetFrequency(hz uint32) {
	g.cs.Do(func() { g.out.SetFrequency(hz) })
}

func (g *guarded) SetDuty(ch Channel, duty uint32) {
	g.cs.Do(func() { g.out.SetDuty(ch, duty) })
}

func (g *guarded) MaxDuty(ch Channel) uint32 {
	var max uint32
	g.cs.Do(func() { max = g.out.MaxDuty(ch) })
	return max
}

func (g *guarded) Enable(ch Channel) {
	g.cs.Do(func() { g.out.Enable(ch) })
}

func (g *guarded) Disable(ch Channel) {
	g.cs.Do(func() { g.out.Disable(ch) })
}

// Tee fans every write out to all outputs. Duty values are scaled from the
// first output's range to each mirror's range, so MaxDuty reports the
// first output only.
func Tee(primary Output, mirrors ...Output) Output {
	if len(mirrors) == 0 {
		return primary
	}
	return &tee{primary: primary, mirrors: mirrors}
}

type tee struct {
	primary Output
	mirrors []Output
}

func (t *tee) SetFrequency(hz uint32) {
	t.primary.SetFrequency(hz)
	for _, m := range t.mirrors {
		m.SetFrequency(hz)
	}
}

func (t *tee) SetDuty(ch Channel, duty uint32) {
	t.primary.SetDuty(ch, duty)
	max := t.primary.MaxDuty(ch)
	for _, m := range t.mirrors {
		m.SetDuty(ch, Scale(duty, max, m.MaxDuty(ch)))
	}
}

func (t *tee) MaxDuty(ch Channel) uint32 {
	return t.primary.MaxDuty(ch)
}

func (t *tee) Enable(ch Channel) {
	t.primary.Enable(ch)
	for _, m := range t.mirrors {
		m.Enable(ch)
	}
}

func (t *tee) Disable(ch Channel) {
	t.primary.Disable(ch)
	for _, m := range t.mirrors {
		m.Disable(ch)
	}
}

// Scale converts a duty value from range [0, from] to range [0, to].
func Scale(duty, from, to uint32) uint32 {
	if from == 0 || from == to {
		return duty
	}
	return uint32(uint64(duty) * uint64(to) / uint64(from))
}
