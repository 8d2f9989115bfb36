// Package cache holds small per-owner lookup caches. None of them lock: each
// is owned by a single component on the frame goroutine.
package cache

import "github.com/enemyradar/extension/pkg/attr"

type memberEntry struct {
	member attr.Member
	ok     bool
}

// typeKey separates host types that share a short name.
type typeKey struct {
	name string
	id   any
}

// MemberCache remembers, per runtime type, how a named attribute resolves.
// Negative results are cached too, so a type without the attribute is only
// inspected once.
type MemberCache struct {
	name    string
	order   []attr.Accessor
	entries map[typeKey]memberEntry
}

// NewMemberCache creates a cache for the attribute name. Accessors are tried in
// the given order; with none given, fields are tried before properties.
func NewMemberCache(name string, order ...attr.Accessor) *MemberCache {
	if len(order) == 0 {
		order = []attr.Accessor{attr.Field, attr.Property}
	}
	return &MemberCache{
		name:    name,
		order:   order,
		entries: make(map[typeKey]memberEntry),
	}
}

// Name returns the attribute name this cache resolves.
func (c *MemberCache) Name() string {
	return c.name
}

// Resolve returns the member for src's runtime type.
func (c *MemberCache) Resolve(src attr.Source) (attr.Member, bool) {
	if src == nil {
		return attr.Member{}, false
	}
	k := typeKey{name: src.TypeName(), id: attr.TypeID(src)}
	if e, ok := c.entries[k]; ok {
		return e.member, e.ok
	}
	var e memberEntry
	if members, ok := attr.SafeMembers(src); ok {
		for _, acc := range c.order {
			if m, ok := attr.Match(members, c.name, acc); ok {
				e = memberEntry{member: m, ok: true}
				break
			}
		}
	}
	c.entries[k] = e
	return e.member, e.ok
}

// Read resolves the member and reads it from src.
func (c *MemberCache) Read(src attr.Source) (attr.Value, error) {
	m, ok := c.Resolve(src)
	if !ok {
		return attr.Nil, attr.ErrAbsent
	}
	return attr.SafeGet(src, m.Name, m.Accessor)
}

// Len returns the number of cached types.
func (c *MemberCache) Len() int {
	return len(c.entries)
}

// Reset clears all cached resolutions.
func (c *MemberCache) Reset() {
	c.entries = make(map[typeKey]memberEntry)
}
