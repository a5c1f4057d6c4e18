// Package planner implements the batch auto-fill algorithm: a deterministic
// first-fit assignment of unassigned students to hostel rooms, used by
// hostels that skip the live selection queue.
package planner

// Room is a room's occupancy view at planning time.
type Room struct {
	ID        string
	Capacity  int
	Occupants int
}

// Student is one unassigned student eligible for the run, in input order.
// GroupID is empty for ungrouped students.
type Student struct {
	ID      string
	GroupID string
}

// Assignment maps one student to one room.
type Assignment struct {
	RoomID    string
	StudentID string
}

// Plan assigns students to rooms in three deterministic passes:
//
//  1. Rooms are partitioned into empty and partially filled pools, both in
//     input order; fully occupied rooms are excluded.
//  2. For each group, in the order its first member appears in the student
//     list, the group's unassigned members go to the first empty room whose
//     capacity fits the whole group. The room leaves the empty pool. Groups
//     that fit no room are skipped; their members fall through to pass 3.
//  3. Leftover students, in input order, fill the partially filled rooms'
//     remaining slots (room order), then the remaining empty rooms.
//
// First-fit over input order is the contract: the planner does not try to
// minimize wasted capacity. A group is never split across rooms, a student
// is assigned at most once and a room never exceeds its capacity.
func Plan(rooms []Room, students []Student) []Assignment {
	var empty, partial []Room
	for _, r := range rooms {
		switch {
		case r.Occupants == 0 && r.Capacity > 0:
			empty = append(empty, r)
		case r.Occupants > 0 && r.Occupants < r.Capacity:
			partial = append(partial, r)
		}
	}

	membersByGroup := make(map[string][]string)
	for _, st := range students {
		if st.GroupID != "" {
			membersByGroup[st.GroupID] = append(membersByGroup[st.GroupID], st.ID)
		}
	}

	var out []Assignment
	assigned := make(map[string]bool)
	processed := make(map[string]bool)

	for _, st := range students {
		if st.GroupID == "" || processed[st.GroupID] {
			continue
		}
		processed[st.GroupID] = true

		members := membersByGroup[st.GroupID]
		idx := -1
		for i, r := range empty {
			if r.Capacity >= len(members) {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}
		room := empty[idx]
		empty = append(empty[:idx:idx], empty[idx+1:]...)
		for _, id := range members {
			out = append(out, Assignment{RoomID: room.ID, StudentID: id})
			assigned[id] = true
		}
	}

	var leftovers []string
	for _, st := range students {
		if !assigned[st.ID] {
			leftovers = append(leftovers, st.ID)
		}
	}

	pos := 0
	fill := func(roomID string, slots int) {
		for slots > 0 && pos < len(leftovers) {
			out = append(out, Assignment{RoomID: roomID, StudentID: leftovers[pos]})
			pos++
			slots--
		}
	}
	for _, r := range partial {
		fill(r.ID, r.Capacity-r.Occupants)
	}
	for _, r := range empty {
		fill(r.ID, r.Capacity)
	}

	return out
}
