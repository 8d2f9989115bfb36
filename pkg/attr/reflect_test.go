package attr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	DisplayQuality int `attr:"displayQuality"`
	Quality        int
}

type lootbox struct {
	Single   *item
	Fixed    [2]*item
	Contents []*item
	Label    string
	secret   int
}

type health struct {
	Team    string `attr:"team"`
	CurHP   float64
	MaxHP   float64
	broken  bool
	private int
}

func (h *health) Current() float64 { return h.CurHP }

func (h *health) Fragile() (float64, error) {
	if h.broken {
		return 0, errors.New("disposed")
	}
	return h.CurHP, nil
}

func (h *health) Exploding() int { panic("host object destroyed") }

func TestReflect_Nil(t *testing.T) {
	assert.Nil(t, Reflect(nil))
	var p *health
	assert.Nil(t, Reflect(p))
}

func TestReflect_Members(t *testing.T) {
	src := Reflect(&health{Team: "player"})
	require.NotNil(t, src)
	assert.Equal(t, "health", src.TypeName())

	names := map[string]Kind{}
	for _, m := range src.Members() {
		names[m.Accessor.String()+"."+m.Name] = m.Kind
	}
	assert.Equal(t, KindString, names["field.team"])
	assert.Equal(t, KindFloat, names["field.CurHP"])
	assert.Equal(t, KindFloat, names["property.Current"])
	_, hasPrivate := names["field.private"]
	assert.False(t, hasPrivate)
}

func TestLookup_ExactBeforeFolded(t *testing.T) {
	src := Reflect(&health{Team: "PlayerSquad", CurHP: 40})

	v, err := Lookup(src, "team", Field)
	require.NoError(t, err)
	assert.Equal(t, "PlayerSquad", v.String())

	v, err = Lookup(src, "curhp", Field)
	require.NoError(t, err)
	f, _ := v.Float()
	assert.Equal(t, 40.0, f)

	_, err = Lookup(src, "missing", Field)
	assert.ErrorIs(t, err, ErrAbsent)
}

func TestLookup_PropertyFailures(t *testing.T) {
	h := &health{CurHP: 10}
	src := Reflect(h)

	v, err := Lookup(src, "Fragile", Property)
	require.NoError(t, err)
	f, _ := v.Float()
	assert.Equal(t, 10.0, f)

	h.broken = true
	_, err = Lookup(src, "Fragile", Property)
	assert.ErrorIs(t, err, ErrUnreadable)

	_, err = Lookup(src, "Exploding", Property)
	assert.ErrorIs(t, err, ErrUnreadable, "panics are absorbed")

	_, ok := TryGet(src, "Exploding", Property)
	assert.False(t, ok)
}

func TestReflect_ItemCollections(t *testing.T) {
	box := &lootbox{
		Single:   &item{DisplayQuality: 3},
		Fixed:    [2]*item{{Quality: 4}, nil},
		Contents: []*item{{DisplayQuality: 9}},
		Label:    "bag",
	}
	src := Reflect(box)

	single, err := Lookup(src, "Single", Field)
	require.NoError(t, err)
	obj, ok := single.Object()
	require.True(t, ok)
	assert.Equal(t, "item", obj.TypeName())

	fixed, err := Lookup(src, "Fixed", Field)
	require.NoError(t, err)
	assert.Equal(t, KindArray, fixed.Kind())
	require.Len(t, fixed.Elems(), 2)
	assert.True(t, fixed.Elems()[1].IsNil())

	contents, err := Lookup(src, "Contents", Field)
	require.NoError(t, err)
	assert.Equal(t, KindList, contents.Kind())

	inner, _ := contents.Elems()[0].Object()
	q, err := Lookup(inner, "displayQuality", Field)
	require.NoError(t, err)
	n, _ := q.Int()
	assert.Equal(t, int64(9), n)
}

func TestTypeID_SharedAcrossInstances(t *testing.T) {
	a := Reflect(&health{CurHP: 1})
	b := Reflect(&health{CurHP: 2})
	assert.Equal(t, TypeID(a), TypeID(b))
	assert.NotEqual(t, TypeID(a), TypeID(Reflect(&lootbox{})))
}

func TestTypeID_LocalShadowsPackageType(t *testing.T) {
	shared := Reflect(&health{Team: "player"})
	type health struct {
		HP int `attr:"hp"`
	}
	local := Reflect(&health{HP: 3})

	assert.Equal(t, shared.TypeName(), local.TypeName())
	assert.NotEqual(t, TypeID(shared), TypeID(local))
}

func TestMatch_ExactBeforeFolded(t *testing.T) {
	members := []Member{
		{Name: "Team", Accessor: Field},
		{Name: "team", Accessor: Property},
		{Name: "team", Accessor: Field},
	}
	m, ok := Match(members, "team", Field)
	require.True(t, ok)
	assert.Equal(t, "team", m.Name)
	assert.Equal(t, Field, m.Accessor)

	m, ok = Match(members, "TEAM", Property)
	require.True(t, ok)
	assert.Equal(t, "team", m.Name)

	_, ok = Match(nil, "team", Field)
	assert.False(t, ok)
}
