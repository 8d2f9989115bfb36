package attr

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrAbsent is returned when the named member does not exist.
	ErrAbsent = errors.New("attribute absent")
	// ErrUnreadable is returned when the host failed while reading a member.
	ErrUnreadable = errors.New("attribute unreadable")
	// ErrIncompatible is returned when a member exists but has an unusable type.
	ErrIncompatible = errors.New("attribute type incompatible")
)

// Accessor distinguishes plain fields from computed properties.
type Accessor uint8

const (
	Field Accessor = iota
	Property
)

func (a Accessor) String() string {
	if a == Property {
		return "property"
	}
	return "field"
}

// Member describes one readable attribute of a Source.
type Member struct {
	Name     string
	Accessor Accessor
	Kind     Kind
}

// Source is an introspectable host object.
type Source interface {
	// TypeName is the runtime type name of the object.
	TypeName() string
	// Members lists the readable attributes, fields first.
	Members() []Member
	// Get reads the member with exactly this name and accessor.
	Get(name string, acc Accessor) (Value, error)
}

// Identified is implemented by sources that can tell apart host types sharing
// a TypeName. TypeID must be comparable and equal for all instances of a type.
type Identified interface {
	TypeID() any
}

// TypeID returns a comparable key for src's runtime type.
func TypeID(src Source) any {
	if id, ok := src.(Identified); ok {
		return id.TypeID()
	}
	return reflect.TypeOf(src)
}

// Resolve finds a member by name. An exact match wins over a case-insensitive one.
func Resolve(src Source, name string, acc Accessor) (Member, bool) {
	members, ok := SafeMembers(src)
	if !ok {
		return Member{}, false
	}
	return Match(members, name, acc)
}

// SafeMembers lists src's members, converting host panics into a miss.
func SafeMembers(src Source) (members []Member, ok bool) {
	if src == nil {
		return nil, false
	}
	defer func() {
		if recover() != nil {
			members, ok = nil, false
		}
	}()
	return src.Members(), true
}

// Match picks name among members with the given accessor. An exact match wins
// over a case-insensitive one.
func Match(members []Member, name string, acc Accessor) (Member, bool) {
	var folded *Member
	for i := range members {
		cand := &members[i]
		if cand.Accessor != acc {
			continue
		}
		if cand.Name == name {
			return *cand, true
		}
		if folded == nil && strings.EqualFold(cand.Name, name) {
			folded = cand
		}
	}
	if folded != nil {
		return *folded, true
	}
	return Member{}, false
}

// SafeGet reads a member, converting host panics into ErrUnreadable.
func SafeGet(src Source, name string, acc Accessor) (v Value, err error) {
	if src == nil {
		return Nil, ErrAbsent
	}
	defer func() {
		if r := recover(); r != nil {
			v, err = Nil, fmt.Errorf("%w: %s.%s: %v", ErrUnreadable, src.TypeName(), name, r)
		}
	}()
	return src.Get(name, acc)
}

// Lookup resolves name (exact first, then case-insensitive) and reads it.
func Lookup(src Source, name string, acc Accessor) (Value, error) {
	m, ok := Resolve(src, name, acc)
	if !ok {
		return Nil, ErrAbsent
	}
	return SafeGet(src, m.Name, m.Accessor)
}

// TryGet is Lookup with every failure folded into "absent".
func TryGet(src Source, name string, acc Accessor) (Value, bool) {
	v, err := Lookup(src, name, acc)
	if err != nil || v.IsNil() {
		return Nil, false
	}
	return v, true
}
