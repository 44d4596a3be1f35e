package wavegen

// claims are zones reserved by bosses that do not share their spawn area.
// Only the boss pass adds to it; every other pool build filters through it.
type claims map[string]struct{}

func (c claims) add(zone string) {
	c[zone] = struct{}{}
}

func (c claims) has(zone string) bool {
	_, ok := c[zone]
	return ok
}

// filter returns pool without claimed zones. The input is not modified.
func (c claims) filter(pool []string) []string {
	if len(c) == 0 {
		return pool
	}
	out := make([]string, 0, len(pool))
	for _, z := range pool {
		if !c.has(z) {
			out = append(out, z)
		}
	}
	return out
}
