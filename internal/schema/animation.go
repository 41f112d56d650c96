package schema

import "fmt"

// Animation is the entry animation played when an object first appears.
type Animation string

const (
	AnimationNone           Animation = "None"
	AnimationFadeIn         Animation = "FadeIn"
	AnimationWrite          Animation = "Write"
	AnimationGrowFromCenter Animation = "GrowFromCenter"
)

// Animations lists every known animation in presentation order.
func Animations() []Animation {
	return []Animation{AnimationNone, AnimationFadeIn, AnimationWrite, AnimationGrowFromCenter}
}

// ParseAnimation maps a string onto a known Animation.
func ParseAnimation(s string) (Animation, error) {
	switch Animation(s) {
	case AnimationNone, AnimationFadeIn, AnimationWrite, AnimationGrowFromCenter:
		return Animation(s), nil
	}
	return "", fmt.Errorf("unknown animation: %q", s)
}

// CompatibleWith reports whether the animation may be assigned to an
// object of type t. Write draws glyph strokes and only applies to Text.
func (a Animation) CompatibleWith(t ObjectType) bool {
	if a == AnimationWrite {
		return t == TypeText
	}
	return true
}
