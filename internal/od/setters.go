// internal/od/setters.go
package od

// check validates a scalar write of type t against r.
func check(t DataType, r Range, data []byte) Error {
	size := TypeSize(t)
	switch {
	case data == nil:
		return DataTypeError
	case len(data) > size:
		return ParamTooLong
	case len(data) < size:
		return ParamTooShort
	}
	return r.Check(loadScalar(data, t))
}

// region returns the writable window [off, off+size) of the object's blob.
func region(obj Object, off, size int) ([]byte, Error) {
	if obj.data == nil {
		return nil, WriteOnly
	}
	if off < 0 || off+size > len(obj.data) {
		return nil, UnableToSet
	}
	return obj.data[off : off+size], OK
}

// ScalarSetter returns a setter that range-checks a value of type t and
// stores it at the absolute blob offset off.
func ScalarSetter(t DataType, off uint16, r Range) SetFunc {
	size := TypeSize(t)
	return func(obj Object, _ uint8, data []byte) Error {
		if e := check(t, r, data); e != OK {
			return e
		}
		dst, e := region(obj, int(off), size)
		if e != OK {
			return e
		}
		copy(dst, data)
		return OK
	}
}

// StringSetter returns a setter for a fixed-length string stored at off.
// Shorter input is zero-padded; full-length input must end in a NUL.
func StringSetter(off, length uint16) SetFunc { return textSetter(off, length, true) }

// BinStringSetter is StringSetter without the terminator rule.
func BinStringSetter(off, length uint16) SetFunc { return textSetter(off, length, false) }

func textSetter(off, length uint16, terminated bool) SetFunc {
	return func(obj Object, _ uint8, data []byte) Error {
		if data == nil {
			return DataTypeError
		}
		n := len(data)
		if n > int(length) {
			return ParamTooLong
		}
		if terminated && n == int(length) && n > 0 && data[n-1] != 0 {
			return ParamTooLong
		}
		dst, e := region(obj, int(off), int(length))
		if e != OK {
			return e
		}
		copy(dst, data)
		clear(dst[n:])
		return OK
	}
}

// WrapSetter checks the value like ScalarSetter but hands it to fn
// instead of storing it.
func WrapSetter[T Integer](r Range, fn func(T) Error) SetFunc {
	return HandlerSetter(TypeOf[T](), r, func(v int64) Error { return fn(T(v)) })
}

// HandlerSetter is WrapSetter for a type only known at run time.
func HandlerSetter(t DataType, r Range, fn func(int64) Error) SetFunc {
	return func(_ Object, _ uint8, data []byte) Error {
		if e := check(t, r, data); e != OK {
			return e
		}
		return fn(loadScalar(data, t))
	}
}

// ReadOnlySetter rejects every write.
func ReadOnlySetter(Object, uint8, []byte) Error { return ReadOnly }

// ChainSetter runs first and, if it succeeds, second.
func ChainSetter(first, second SetFunc) SetFunc {
	return func(obj Object, sub uint8, data []byte) Error {
		if e := first(obj, sub, data); e != OK {
			return e
		}
		return second(obj, sub, data)
	}
}

// ArraySetter writes element sub (1-based) of an array object.
func ArraySetter(obj Object, sub uint8, data []byte) Error {
	a, ok := obj.desc.(*ArrayInfo)
	if !ok {
		return FieldNotFound
	}
	if sub == 0 {
		return ReadOnly
	}
	if sub > a.NElem {
		return FieldNotFound
	}
	if e := check(a.Type, a.Range, data); e != OK {
		return e
	}
	size := a.ElementSize()
	dst, e := region(obj, int(a.DataOffset)+size*int(sub-1), size)
	if e != OK {
		return e
	}
	copy(dst, data)
	return OK
}

// RecordSetter dispatches to the setter of field sub (1-based).
func RecordSetter(obj Object, sub uint8, data []byte) Error {
	r, ok := obj.desc.(*RecordInfo)
	if !ok || sub > r.NElem {
		return FieldNotFound
	}
	if sub == 0 {
		return ReadOnly
	}
	f := &r.Fields[sub-1]
	if f.Set == nil {
		return ReadOnly
	}
	return f.Set(obj, sub, data)
}
