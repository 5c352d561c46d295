package domain

// RoomID is a caller-supplied room identifier, opaque to the coordinator.
// No structural validation happens here; collaborators may mint fresh ones.
type RoomID string
