package utils

import (
	"encoding/json"

	"github.com/aarondl/null/v8"
)

// NullableInt distinguishes an absent JSON key (Set == false) from an explicit null
// (Set == true, Int.Valid == false).
type NullableInt struct {
	Set bool
	Int null.Int64
}

func (n *NullableInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	return n.Int.UnmarshalJSON(data)
}

func (n NullableInt) MarshalJSON() ([]byte, error) {
	return n.Int.MarshalJSON()
}

// Ptr returns nil for absent or null values.
func (n NullableInt) Ptr() *uint64 {
	if !n.Set || !n.Int.Valid {
		return nil
	}
	v := uint64(n.Int.Int64)
	return &v
}

type NullableString struct {
	Set    bool
	String null.String
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	return n.String.UnmarshalJSON(data)
}

func (n NullableString) MarshalJSON() ([]byte, error) {
	return n.String.MarshalJSON()
}

type NullableTime struct {
	Set  bool
	Time null.Time
}

func (n *NullableTime) UnmarshalJSON(data []byte) error {
	n.Set = true
	return n.Time.UnmarshalJSON(data)
}

func (n NullableTime) MarshalJSON() ([]byte, error) {
	if !n.Time.Valid {
		return json.Marshal(nil)
	}
	return n.Time.MarshalJSON()
}

func ToPtr[T any](v T) *T {
	return &v
}

// DiffPtr reports whether two optional values differ; nil equals only nil.
func DiffPtr[T comparable](oldVal, newVal *T) bool {
	if oldVal == nil || newVal == nil {
		return oldVal != newVal
	}
	return *oldVal != *newVal
}
