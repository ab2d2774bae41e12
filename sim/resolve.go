package sim

// direction of a topology walk.
type direction int

const (
	upstream direction = iota
	downstream
)

// flowTransparent reports whether flow passes through a kind unchanged, so a
// nearest-kind search continues past it. Sensors and heat exchangers are
// hydraulically invisible links.
func flowTransparent(k ComponentKind) bool {
	return k == KindHeatExchanger || k.IsSensor()
}

// resolveNearestAt walks the topology starting at id (the start node itself
// is a candidate) in the given direction and returns the first component of
// type T, looking through flow-transparent links. Breadth-first with a
// visited set, so cycles terminate. Dangling ids are skipped: a reference to
// a component that does not exist simply resolves to nothing.
func resolveNearestAt[T Component](n *FlowNetwork, id string, dir direction) (T, bool) {
	var zero T
	visited := make(map[string]bool)
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		c, ok := n.Component(cur)
		if !ok {
			continue
		}
		if target, ok := c.(T); ok {
			return target, true
		}
		if cur == id || flowTransparent(c.Kind()) {
			queue = append(queue, neighborIDs(c, dir)...)
		}
	}
	return zero, false
}

// resolveNearest is resolveNearestAt starting from a component's neighbors
// rather than the component itself.
func resolveNearest[T Component](n *FlowNetwork, c Component, dir direction) (T, bool) {
	var zero T
	for _, id := range neighborIDs(c, dir) {
		if target, ok := resolveNearestAt[T](n, id, dir); ok {
			return target, true
		}
	}
	return zero, false
}

func neighborIDs(c Component, dir direction) []string {
	if dir == upstream {
		return c.Inputs()
	}
	return c.Outputs()
}

// componentTemperature returns the temperature component id presents to the
// downstream component forID, defaulting when the id does not resolve or the
// component carries no temperature.
func componentTemperature(n *FlowNetwork, id, forID string) (float64, bool) {
	c, ok := n.Component(id)
	if !ok {
		return DefaultFluidTemperature, false
	}
	switch src := c.(type) {
	case sideTemperatureSource:
		return src.TemperatureFor(forID), true
	case temperatureSource:
		return src.Temperature(), true
	}
	return DefaultFluidTemperature, false
}

// upstreamTemperature finds the temperature carried into component id by its
// first upstream neighbor that has one, directly wired only.
func upstreamTemperature(n *FlowNetwork, id string) float64 {
	c, ok := n.Component(id)
	if !ok {
		return DefaultFluidTemperature
	}
	for _, in := range c.Inputs() {
		if temp, ok := componentTemperature(n, in, id); ok {
			return temp
		}
	}
	return DefaultFluidTemperature
}

// searchUpstreamTemperature walks upstream through any component until it
// finds one carrying a temperature. Used by the generic "fluid" measurement
// point, where the source may sit several links away.
func searchUpstreamTemperature(n *FlowNetwork, startID string) float64 {
	visited := make(map[string]bool)
	parent := map[string]string{startID: startID}
	queue := []string{startID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		c, ok := n.Component(cur)
		if !ok {
			continue
		}
		if cur != startID {
			if temp, ok := componentTemperature(n, cur, parent[cur]); ok {
				return temp
			}
		}
		for _, in := range c.Inputs() {
			if _, seen := parent[in]; !seen {
				parent[in] = cur
			}
			queue = append(queue, in)
		}
	}
	return DefaultFluidTemperature
}
