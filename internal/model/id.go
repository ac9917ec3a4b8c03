package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
)

// LocalPrefix marks identifiers synthesized on the client for records that
// exist only in the local cache. Server identifiers are always integers.
const LocalPrefix = "local-"

type idKind uint8

const (
	idNull idKind = iota
	idRemote
	idLocal
)

// ID is the canonical identifier for every entity. It is parsed once at the
// data boundary: either a server integer, a local token, or null.
// A null ID never matches anything, including another null ID.
type ID struct {
	token string
	num   int64
	kind  idKind
}

// RemoteID wraps a server-assigned identifier.
func RemoteID(n int64) ID {
	return ID{kind: idRemote, num: n}
}

// LocalID wraps a client-synthesized token, adding LocalPrefix if missing.
func LocalID(token string) ID {
	if token == "" {
		return ID{}
	}
	if !strings.HasPrefix(token, LocalPrefix) {
		token = LocalPrefix + token
	}
	return ID{kind: idLocal, token: token}
}

// NullID is the identifier that matches nothing.
func NullID() ID {
	return ID{}
}

// NormalizeID converts any identifier representation to an ID.
// Integers and integer-looking strings become remote IDs, strings carrying
// LocalPrefix become local IDs, anything else becomes null.
// NormalizeID(NormalizeID(v)) == NormalizeID(v) for every v.
func NormalizeID(v any) ID {
	switch val := v.(type) {
	case nil:
		return ID{}
	case ID:
		return val
	case *ID:
		if val == nil {
			return ID{}
		}
		return *val
	case int:
		return RemoteID(int64(val))
	case int32:
		return RemoteID(int64(val))
	case int64:
		return RemoteID(val)
	case uint:
		if uint64(val) > math.MaxInt64 {
			return ID{}
		}
		return RemoteID(int64(val))
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) || val != math.Trunc(val) ||
			val >= 0x1p63 || val < -0x1p63 {
			return ID{}
		}
		return RemoteID(int64(val))
	case json.Number:
		return ParseID(string(val))
	case string:
		return ParseID(val)
	default:
		return ID{}
	}
}

// ParseID normalizes a textual identifier.
func ParseID(s string) ID {
	s = strings.TrimSpace(s)
	if s == "" {
		return ID{}
	}
	if strings.HasPrefix(s, LocalPrefix) && len(s) > len(LocalPrefix) {
		return ID{kind: idLocal, token: s}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return ID{}
	}
	return RemoteID(n)
}

// Valid reports whether the ID is remote or local.
func (id ID) Valid() bool { return id.kind != idNull }

// IsLocal reports whether the ID was synthesized on the client.
func (id ID) IsLocal() bool { return id.kind == idLocal }

// IsRemote reports whether the ID was assigned by the server.
func (id ID) IsRemote() bool { return id.kind == idRemote }

// Int64 returns the server identifier.
func (id ID) Int64() (int64, bool) {
	return id.num, id.kind == idRemote
}

// Matches reports whether both IDs are valid and equal.
func (id ID) Matches(other ID) bool {
	if id.kind == idNull || other.kind == idNull {
		return false
	}
	return id == other
}

func (id ID) String() string {
	switch id.kind {
	case idRemote:
		return strconv.FormatInt(id.num, 10)
	case idLocal:
		return id.token
	default:
		return ""
	}
}

// MarshalJSON writes remote IDs as numbers, local IDs as strings and null as null.
func (id ID) MarshalJSON() ([]byte, error) {
	switch id.kind {
	case idRemote:
		return []byte(strconv.FormatInt(id.num, 10)), nil
	case idLocal:
		return json.Marshal(id.token)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON never fails on well-formed JSON; unusable values become null.
func (id *ID) UnmarshalJSON(data []byte) error {
	*id = idFromRaw(data)
	return nil
}

func idFromRaw(data []byte) ID {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return ID{}
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ID{}
		}
		return ParseID(s)
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return ID{}
	}
	if i, err := n.Int64(); err == nil {
		return RemoteID(i)
	}
	f, err := n.Float64()
	if err != nil {
		return ID{}
	}
	return NormalizeID(f)
}

// LegacyCategoryID rehashes a historical non-numeric category identifier to
// a stable numeric one: h = h*31 + c over UTF-16 code units with 32-bit
// wraparound, then the absolute value.
func LegacyCategoryID(s string) ID {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	n := int64(h)
	if n < 0 {
		n = -n
	}
	return RemoteID(n)
}

// FindIndex returns the index of the element whose ID matches id, or -1.
func FindIndex[T any](items []T, id ID, idOf func(T) ID) int {
	for i, item := range items {
		if idOf(item).Matches(id) {
			return i
		}
	}
	return -1
}
