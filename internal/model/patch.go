package model

import "encoding/json"

// Patch is a field of a partial update.  Set is true when the key was
// present in the request body, even if its value was null; for pointer
// types a JSON null clears the stored value.  Marshal patches with the
// `omitzero` tag so unset fields are left out of the body.
type Patch[T any] struct {
	Val T
	Set bool
}

// SetTo returns a patch that assigns v.
func SetTo[T any](v T) Patch[T] { return Patch[T]{Val: v, Set: true} }

// IsZero reports whether the patch leaves the field untouched.
func (p Patch[T]) IsZero() bool { return !p.Set }

func (p Patch[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Val)
}

func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	p.Val = v
	p.Set = true
	return nil
}

// apply copies the value into dst when the patch is set.
func (p Patch[T]) apply(dst *T) {
	if p.Set {
		*dst = p.Val
	}
}
