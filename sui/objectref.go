package sui

// ObjectRef uniquely identifies a specific version of an on-chain object
// (spec §3).
type ObjectRef struct {
	ObjectID ObjectID
	Version  uint64
	Digest   Digest
}

// ObjectStatus tags what kind of state an ObjectReadResult carries.
type ObjectStatus uint8

const (
	ObjectStatusExists ObjectStatus = iota
	ObjectStatusDeleted
	ObjectStatusNotFound
)

// ObjectReadResult is a snapshot read result, or a per-call override entry
// (spec §4.C3): it can represent a live object, a deletion marker, or "not
// found" (used by override entries substituted into the simulator).
type ObjectReadResult struct {
	ObjectID ObjectID
	Status   ObjectStatus
	Ref      ObjectRef
	// BCS is the raw Move-object contents. The core does not interpret the
	// BCS layout generically; each DEX adapter knows its own protocol's
	// struct layout and decodes the bytes it cares about.
	BCS   []byte
	Owner Address
}

// Deleted builds a deletion-marker ObjectReadResult for id.
func Deleted(id ObjectID) ObjectReadResult {
	return ObjectReadResult{ObjectID: id, Status: ObjectStatusDeleted}
}

// NotFound builds a "not found" ObjectReadResult for id.
func NotFound(id ObjectID) ObjectReadResult {
	return ObjectReadResult{ObjectID: id, Status: ObjectStatusNotFound}
}
