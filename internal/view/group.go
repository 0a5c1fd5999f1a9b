package view

// EventGroup is the set of cards shown under one event heading.
type EventGroup struct {
	EventName string `json:"event_name"`
	Cards     []Card `json:"cards"`
}

// GroupByEvent groups cards by event name. Groups appear in the order of
// their first card and cards keep their relative order.
func GroupByEvent(cards []Card) []EventGroup {
	groups := []EventGroup{}
	index := make(map[string]int)
	for _, c := range cards {
		i, ok := index[c.EventName]
		if !ok {
			i = len(groups)
			index[c.EventName] = i
			groups = append(groups, EventGroup{EventName: c.EventName})
		}
		groups[i].Cards = append(groups[i].Cards, c)
	}
	return groups
}

// EventNames returns the group headings in order.
func EventNames(groups []EventGroup) []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.EventName
	}
	return names
}
