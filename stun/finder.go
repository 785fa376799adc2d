package stun

// FindAttribute scans buf (a full, already-validated STUN message) for
// the first attribute of type want, decoding the header afresh in a
// throwaway Deserializer rather than sharing the caller's iteration
// state. This mirrors the source library's approach of re-running
// Init for a one-off lookup instead of exposing a seek primitive.
//
// Returns ErrNoAttributeFound, distinct from the stream-end signal
// ErrNoMoreAttributeFound a plain GetNextAttribute loop would see, so
// callers can tell "scanned everything, nothing matched" apart from
// "you kept iterating past the end".
func FindAttribute(buf []byte, want AttrType) (RawAttribute, error) {
	d, err := NewDeserializer(buf)
	if err != nil {
		return RawAttribute{}, err
	}
	for {
		attr, err := d.GetNextAttribute()
		if err == ErrNoMoreAttributeFound {
			return RawAttribute{}, ErrNoAttributeFound
		}
		if err != nil {
			return RawAttribute{}, err
		}
		if attr.Type == want {
			return attr, nil
		}
	}
}

// UpdateAttributeNonce rewrites the value of an existing NONCE
// attribute in buf in place, e.g. after a server's 438 Stale Nonce
// response hands out a replacement. newNonce must be exactly as long
// as the current value; STUN attribute lengths are fixed at encode
// time and this package never reflows a message to grow one in place.
func UpdateAttributeNonce(buf []byte, newNonce []byte) error {
	attr, err := FindAttribute(buf, AttrNonce)
	if err != nil {
		return err
	}
	if len(newNonce) != len(attr.Value) {
		return ErrBadParam
	}
	copy(attr.Value, newNonce)
	return nil
}
