package relay

import "devicerelay/internal/domain/entity"

// entry is one registered connection.
type entry struct {
	socket Socket
	record ConnectionRecord
}

// registry indexes the live connections of one coordinator by device tag and
// by socket. It is only touched from the coordinator goroutine.
type registry struct {
	byTag    map[string][]*entry
	bySocket map[string]*entry
}

func newRegistry() *registry {
	return &registry{
		byTag:    make(map[string][]*entry),
		bySocket: make(map[string]*entry),
	}
}

// add registers socket under rec.Tag. Adding a known socket replaces its record.
func (r *registry) add(socket Socket, rec ConnectionRecord) *entry {
	if existing, ok := r.bySocket[socket.ID()]; ok {
		r.remove(existing.socket.ID())
	}

	e := &entry{socket: socket, record: rec}
	r.bySocket[socket.ID()] = e
	r.byTag[rec.Tag] = append(r.byTag[rec.Tag], e)

	return e
}

// lookup returns the first connection registered under tag. One device is
// expected to hold at most one connection; duplicates are not rejected.
func (r *registry) lookup(tag string) (*entry, bool) {
	entries := r.byTag[tag]
	if len(entries) == 0 {
		return nil, false
	}

	return entries[0], true
}

// get returns the entry of a socket.
func (r *registry) get(socketID string) (*entry, bool) {
	e, ok := r.bySocket[socketID]

	return e, ok
}

// remove drops a socket. Removing an unknown socket reports false.
func (r *registry) remove(socketID string) (*entry, bool) {
	e, ok := r.bySocket[socketID]
	if !ok {
		return nil, false
	}
	delete(r.bySocket, socketID)

	tag := e.record.Tag
	entries := r.byTag[tag]
	for i, candidate := range entries {
		if candidate == e {
			entries = append(entries[:i], entries[i+1:]...)

			break
		}
	}
	if len(entries) == 0 {
		delete(r.byTag, tag)
	} else {
		r.byTag[tag] = entries
	}

	return e, true
}

// each visits every registered connection in no particular order.
func (r *registry) each(fn func(e *entry)) {
	for _, e := range r.bySocket {
		fn(e)
	}
}

// peers returns the metadata of every connection except self.
func (r *registry) peers(self *entry) []entity.DeviceIdentity {
	out := make([]entity.DeviceIdentity, 0, len(r.bySocket))
	r.each(func(e *entry) {
		if e != self {
			out = append(out, e.record.Metadata)
		}
	})

	return out
}

func (r *registry) len() int {
	return len(r.bySocket)
}
