package app

import (
	"github.com/samber/lo"

	"github.com/avetrov/Tandem/internal/domain"
)

type memberSet map[domain.ConnID]struct{}

// roomDirectory maps room ids to member sets. Rooms are created on first
// join and deleted the instant the member set empties, so an entry with
// zero members never exists. Locking lives in the Coordinator.
type roomDirectory struct {
	rooms map[domain.RoomID]memberSet
}

func newRoomDirectory() *roomDirectory {
	return &roomDirectory{rooms: make(map[domain.RoomID]memberSet)}
}

// join adds the connection to the room, creating the room if absent.
// Returns false when the connection was already a member.
func (d *roomDirectory) join(roomID domain.RoomID, id domain.ConnID) bool {
	members, ok := d.rooms[roomID]
	if !ok {
		members = make(memberSet)
		d.rooms[roomID] = members
	}
	if _, ok := members[id]; ok {
		return false
	}
	members[id] = struct{}{}
	return true
}

// leave removes the connection from the room and deletes the room when
// nobody is left. Returns false when there was nothing to remove.
func (d *roomDirectory) leave(roomID domain.RoomID, id domain.ConnID) bool {
	members, ok := d.rooms[roomID]
	if !ok {
		return false
	}
	if _, ok := members[id]; !ok {
		return false
	}
	delete(members, id)
	if len(members) == 0 {
		delete(d.rooms, roomID)
	}
	return true
}

// members returns the current member set; nil for an unknown room.
func (d *roomDirectory) members(roomID domain.RoomID) memberSet {
	return d.rooms[roomID]
}

func (d *roomDirectory) activeRoomIDs() []domain.RoomID {
	return lo.Keys(d.rooms)
}

func (d *roomDirectory) size() int {
	return len(d.rooms)
}
