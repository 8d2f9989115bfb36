package attr

import (
	"fmt"
	"reflect"
)

// Reflect exposes a Go struct (or pointer to one) as a Source. Exported fields
// become Field members, named by their `attr` tag when present. Exported
// methods taking no arguments and returning one value (optionally followed by
// an error) become Property members.
func Reflect(v any) Source {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil
	}
	return &reflected{val: rv}
}

type reflected struct {
	val     reflect.Value
	members []Member
	index   map[string]reflectedMember
}

type reflectedMember struct {
	field  []int
	method int
}

func (r *reflected) TypeName() string {
	t := r.val.Type()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// TypeID keys on the Go type, so same-named structs from different packages
// stay distinct.
func (r *reflected) TypeID() any {
	return r.val.Type()
}

func (r *reflected) Members() []Member {
	r.build()
	return r.members
}

func (r *reflected) Get(name string, acc Accessor) (Value, error) {
	r.build()
	m, ok := r.index[key(name, acc)]
	if !ok {
		return Nil, fmt.Errorf("%w: %s.%s", ErrAbsent, r.TypeName(), name)
	}
	if acc == Field {
		sv := reflect.Indirect(r.val)
		return valueOf(sv.FieldByIndex(m.field))
	}
	out := r.val.Method(m.method).Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return Nil, fmt.Errorf("%w: %s.%s: %v", ErrUnreadable, r.TypeName(), name, out[1].Interface())
	}
	return valueOf(out[0])
}

func key(name string, acc Accessor) string {
	return acc.String() + ":" + name
}

func (r *reflected) build() {
	if r.index != nil {
		return
	}
	r.index = make(map[string]reflectedMember)

	sv := reflect.Indirect(r.val)
	if sv.Kind() == reflect.Struct {
		st := sv.Type()
		for i := 0; i < st.NumField(); i++ {
			f := st.Field(i)
			if !f.IsExported() {
				continue
			}
			name := f.Name
			if tag, ok := f.Tag.Lookup("attr"); ok && tag != "" && tag != "-" {
				name = tag
			} else if tag == "-" {
				continue
			}
			r.members = append(r.members, Member{Name: name, Accessor: Field, Kind: kindOf(f.Type)})
			r.index[key(name, Field)] = reflectedMember{field: f.Index}
		}
	}

	mt := r.val.Type()
	errType := reflect.TypeOf((*error)(nil)).Elem()
	for i := 0; i < mt.NumMethod(); i++ {
		m := mt.Method(i)
		ft := m.Type
		// receiver counts as the first input
		if ft.NumIn() != 1 {
			continue
		}
		switch {
		case ft.NumOut() == 1:
		case ft.NumOut() == 2 && ft.Out(1) == errType:
		default:
			continue
		}
		r.members = append(r.members, Member{Name: m.Name, Accessor: Property, Kind: kindOf(ft.Out(0))})
		r.index[key(m.Name, Property)] = reflectedMember{method: i}
	}
}

func kindOf(t reflect.Type) Kind {
	switch t.Kind() {
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInt
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.String:
		return KindString
	case reflect.Array:
		return KindArray
	case reflect.Slice:
		return KindList
	case reflect.Struct, reflect.Interface:
		return KindObject
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Struct {
			return KindObject
		}
	}
	return KindOpaque
}

func valueOf(v reflect.Value) (Value, error) {
	switch v.Kind() {
	case reflect.Bool:
		return Bool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int(int64(v.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return Float(v.Float()), nil
	case reflect.String:
		return String(v.String()), nil
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return Nil, nil
		}
		if src, ok := v.Interface().(Source); ok {
			return Object(src), nil
		}
		if v.Kind() == reflect.Interface {
			return valueOf(v.Elem())
		}
		if v.Elem().Kind() == reflect.Struct {
			return Object(Reflect(v.Interface())), nil
		}
		return valueOf(v.Elem())
	case reflect.Struct:
		if !v.CanAddr() {
			cp := reflect.New(v.Type())
			cp.Elem().Set(v)
			v = cp.Elem()
		}
		return Object(Reflect(v.Addr().Interface())), nil
	case reflect.Array, reflect.Slice:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return Nil, nil
		}
		elems := make([]Value, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			ev, err := valueOf(v.Index(i))
			if err != nil {
				ev = Nil
			}
			elems = append(elems, ev)
		}
		if v.Kind() == reflect.Array {
			return Array(elems...), nil
		}
		return List(elems...), nil
	}
	return Opaque(v.Type().String()), fmt.Errorf("%w: %s", ErrIncompatible, v.Type())
}
