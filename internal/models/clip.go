package models

// Clip is an operator-selected time range of a source video, in seconds.
// A clip with End <= Start is not constructible through the builder.
type Clip struct {
	Start       float64 `json:"start" validate:"gte=0"`
	End         float64 `json:"end" validate:"gtfield=Start"`
	Description string  `json:"description,omitempty" validate:"omitempty,max=500"`
}
